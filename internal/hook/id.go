package hook

import "github.com/google/uuid"

// UseID returns an identifier that is unique across the process and stable
// for the lifetime of the component instance.
func UseID(c *Context) string {
	return UseMemo(c, func() string { return uuid.Must(uuid.NewV7()).String() })
}

// UseIDWithPrefix is UseID with a readable prefix.
func UseIDWithPrefix(c *Context, prefix string) string {
	id := UseID(c)
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
