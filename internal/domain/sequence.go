package domain

// Sequence hands out reservation numbers. One sequence is shared by every bean bag in a
// store; zero is never issued so it can mean "no reservation".
type Sequence struct {
	last int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Next() int64 {
	s.last++
	return s.last
}

func (s *Sequence) Last() int64 {
	return s.last
}

// AdvanceTo moves the sequence forward so the next number issued is greater than id.
func (s *Sequence) AdvanceTo(id int64) {
	if id > s.last {
		s.last = id
	}
}
