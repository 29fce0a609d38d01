package uniqueid

// unavailableProvider never yields an id.
type unavailableProvider struct {
	err error
}

func (unavailableProvider) Available() bool { return false }

func (p unavailableProvider) ID() (string, error) { return "", p.err }
