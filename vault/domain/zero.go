package domain

// Zero overwrites every byte of b with zero. Safe to call on a nil or empty
// slice.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Secret is an exclusively owned, zero-on-release byte buffer. It models
// the DEK and any transient KEK: the caller takes ownership of the bytes
// passed to NewSecret and must not retain another reference to them.
// Release zeros the buffer and detaches it; Bytes after Release returns nil.
type Secret struct {
	b []byte
}

// NewSecret takes ownership of b and returns it wrapped in a Secret. The
// caller must not use b directly after this call.
func NewSecret(b []byte) *Secret {
	return &Secret{b: b}
}

// Bytes returns the secret's underlying bytes. The returned slice aliases
// the Secret's storage; callers must not retain it past Release.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Release zeros the secret's bytes and drops the reference. Safe to call
// more than once and on a nil Secret.
func (s *Secret) Release() {
	if s == nil {
		return
	}
	Zero(s.b)
	s.b = nil
}
