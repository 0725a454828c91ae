package suggest

// NoPointer means no candidate is highlighted.
const NoPointer = -1

// candidateList tracks the displayed candidates and the keyboard pointer.
type candidateList struct {
	candidates []Candidate
	query      string // query the candidates answer
	open       bool
	pointer    int

	// pendingEdit is the text to restore when a preview is canceled.
	pendingEdit    string
	hasPendingEdit bool
}

func newCandidateList() candidateList {
	return candidateList{pointer: NoPointer}
}

func (cl *candidateList) len() int {
	return len(cl.candidates)
}

func (cl *candidateList) replace(query string, candidates []Candidate) {
	cl.candidates = candidates
	cl.query = query
	cl.pointer = NoPointer
}

func (cl *candidateList) clear() {
	cl.candidates = nil
	cl.query = ""
	cl.pointer = NoPointer
	cl.clearPendingEdit()
}

func (cl *candidateList) at(index int) (Candidate, bool) {
	if index < 0 || index >= len(cl.candidates) {
		return nil, false
	}
	return cl.candidates[index], true
}

func (cl *candidateList) highlighted() (Candidate, bool) {
	return cl.at(cl.pointer)
}

// next returns the pointer after a down press: one step forward, and past
// the last candidate back to NoPointer.
func (cl *candidateList) next() int {
	n := len(cl.candidates)
	if n == 0 {
		return NoPointer
	}
	p := cl.pointer + 1
	if p > n-1 {
		return NoPointer
	}
	return p
}

// prev returns the pointer after an up press: from NoPointer to the last
// candidate, from the first candidate to NoPointer.
func (cl *candidateList) prev() int {
	n := len(cl.candidates)
	if n == 0 {
		return NoPointer
	}
	if cl.pointer == NoPointer {
		return n - 1
	}
	return cl.pointer - 1
}

func (cl *candidateList) rememberEdit(value string) {
	cl.pendingEdit = value
	cl.hasPendingEdit = true
}

func (cl *candidateList) clearPendingEdit() {
	cl.pendingEdit = ""
	cl.hasPendingEdit = false
}
