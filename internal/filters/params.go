package filters

// Params holds a filter's DecodeParms entries
type Params map[string]interface{}

// Int returns an integer parameter, or def when missing or not numeric
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool returns a boolean parameter, or def when missing or not a bool
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}
