package prefs

// FloatCheck decides whether a 4-byte integer read from native storage was
// written as a float. When it was, the float value is returned.
type FloatCheck interface {
	CheckFloat(key string) (float32, bool)
}

// FloatCheckFunc adapts a function to FloatCheck
type FloatCheckFunc func(key string) (float32, bool)

// CheckFloat implements FloatCheck
func (f FloatCheckFunc) CheckFloat(key string) (float32, bool) {
	return f(key)
}

// NeverFloat is a FloatCheck that keeps every integer as an integer
var NeverFloat FloatCheck = FloatCheckFunc(func(string) (float32, bool) { return 0, false })
