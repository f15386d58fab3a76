package dto

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest is the page/limit pair read from list query strings.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and limit to [1, MaxPageLimit].
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}
