package humidity

// Dummy is the sensor used where no humidity hardware is supported.
type Dummy struct{}

func (Dummy) Name() string           { return BackendNone }
func (Dummy) Available() bool        { return false }
func (Dummy) Enable()                {}
func (Dummy) Disable()               {}
func (Dummy) Enabled() bool          { return false }
func (Dummy) Read() (float64, error) { return 0, ErrUnavailable }
