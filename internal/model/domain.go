package model

// Domain is the detected log source category.
type Domain string

const (
	DomainSecurity    Domain = "security"
	DomainWeb         Domain = "web"
	DomainApplication Domain = "application"
	DomainSystem      Domain = "system"
	DomainGeneral     Domain = "general"
)

// String returns the wire form of the domain.
func (d Domain) String() string { return string(d) }
