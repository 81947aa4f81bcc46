package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/hashstructure/v2"
)

// Recognized top-level keys of a Claude Code settings document. Everything
// else is round-tripped unchanged so fig never destroys settings written by
// other tools.
const (
	KeyPermissions     = "permissions"
	KeyPermissionAllow = "allow"
	KeyPermissionDeny  = "deny"
	KeyEnv             = "env"
	KeyAttribution     = "attribution"
	KeyDisallowedTools = "disallowedTools"
)

// Attribution holds the commit/PR attribution flags.
type Attribution struct {
	Commits      bool
	PullRequests bool
}

// Content is the parsed body of a settings document. It is a plain JSON
// object so unknown keys survive load/save cycles untouched.
type Content map[string]interface{}

// NewContent returns an empty settings document body.
func NewContent() Content {
	return make(Content)
}

// ParseContent decodes raw JSON bytes into a Content. Empty input yields an
// empty document.
func ParseContent(data []byte) (Content, error) {
	c := NewContent()
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, (*map[string]interface{})(&c)); err != nil {
		return nil, err
	}
	return c, nil
}

// Serialize encodes the content as pretty-printed JSON with a trailing
// newline for POSIX compliance.
func (c Content) Serialize() ([]byte, error) {
	m := map[string]interface{}(c)
	if m == nil {
		m = map[string]interface{}{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing settings: %w", err)
	}
	return append(data, '\n'), nil
}

// Clone returns a deep copy of the content. Sessions edit clones so the
// store's baseline is never mutated through shared references.
func (c Content) Clone() Content {
	if c == nil {
		return NewContent()
	}
	copied, err := copystructure.Copy(map[string]interface{}(c))
	if err != nil {
		// Content only ever holds JSON-decoded values, which copystructure
		// handles; reaching this means memory corruption, not bad input.
		panic(fmt.Sprintf("cloning settings content: %v", err))
	}
	return Content(copied.(map[string]interface{}))
}

// CloneValue deep-copies a single JSON-decoded value.
func CloneValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	copied, err := copystructure.Copy(v)
	if err != nil {
		panic(fmt.Sprintf("cloning settings value: %v", err))
	}
	return copied
}

// ValuesEqual reports structural equality of two JSON-decoded values.
func ValuesEqual(a, b interface{}) bool {
	ha, err := hashstructure.Hash(a, hashstructure.FormatV2, nil)
	if err != nil {
		return false
	}
	hb, err := hashstructure.Hash(b, hashstructure.FormatV2, nil)
	if err != nil {
		return false
	}
	return ha == hb
}

// Fingerprint returns a structural hash of the content. Formatting of the
// underlying file never affects it, only effective values do.
func (c Content) Fingerprint() uint64 {
	m := map[string]interface{}(c)
	if m == nil {
		m = map[string]interface{}{}
	}
	h, err := hashstructure.Hash(m, hashstructure.FormatV2, nil)
	if err != nil {
		panic(fmt.Sprintf("hashing settings content: %v", err))
	}
	return h
}

// Equal reports structural equality with other.
func (c Content) Equal(other Content) bool {
	return c.Fingerprint() == other.Fingerprint()
}

// Get resolves a dot-separated field path. Returns the value and whether the
// path exists.
func (c Content) Get(path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var cur interface{} = map[string]interface{}(c)
	for _, part := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set writes a value at a dot-separated field path, creating intermediate
// objects as needed. Returns an error if a path segment collides with a
// non-object value.
func (c Content) Set(path string, value interface{}) error {
	parts := strings.Split(path, ".")
	m := map[string]interface{}(c)
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part]
		if !ok {
			child := make(map[string]interface{})
			m[part] = child
			m = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("field %q is not an object", part)
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
	return nil
}

// Unset removes the value at a dot-separated field path. Returns the removed
// value and whether anything was removed.
func (c Content) Unset(path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	m := map[string]interface{}(c)
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]interface{})
		if !ok {
			return nil, false
		}
		m = child
	}
	last := parts[len(parts)-1]
	prev, ok := m[last]
	if !ok {
		return nil, false
	}
	delete(m, last)
	return prev, true
}

// permissions returns the permissions object, creating it if necessary.
func (c Content) permissions() map[string]interface{} {
	perms, ok := c[KeyPermissions].(map[string]interface{})
	if !ok {
		perms = make(map[string]interface{})
		c[KeyPermissions] = perms
	}
	return perms
}

// stringList converts an interface{} holding []interface{} of strings into a
// []string. Non-string entries are skipped.
func stringList(v interface{}) []string {
	slice, ok := v.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// toInterfaceSlice converts []string to []interface{} for JSON compatibility.
func toInterfaceSlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// AllowRules returns the permission allow list.
func (c Content) AllowRules() []string {
	perms, ok := c[KeyPermissions].(map[string]interface{})
	if !ok {
		return nil
	}
	return stringList(perms[KeyPermissionAllow])
}

// DenyRules returns the permission deny list.
func (c Content) DenyRules() []string {
	perms, ok := c[KeyPermissions].(map[string]interface{})
	if !ok {
		return nil
	}
	return stringList(perms[KeyPermissionDeny])
}

// AddAllowRule appends a tool pattern to the allow list if not already
// present. Returns true if the rule was added.
func (c Content) AddAllowRule(pattern string) bool {
	return c.addRule(KeyPermissionAllow, c.AllowRules(), pattern)
}

// AddDenyRule appends a tool pattern to the deny list if not already present.
// Returns true if the rule was added.
func (c Content) AddDenyRule(pattern string) bool {
	return c.addRule(KeyPermissionDeny, c.DenyRules(), pattern)
}

func (c Content) addRule(key string, existing []string, pattern string) bool {
	for _, p := range existing {
		if p == pattern {
			return false
		}
	}
	c.permissions()[key] = toInterfaceSlice(append(existing, pattern))
	return true
}

// RemoveAllowRule removes a pattern from the allow list. Returns true if it
// was present.
func (c Content) RemoveAllowRule(pattern string) bool {
	return c.removeRule(KeyPermissionAllow, c.AllowRules(), pattern)
}

// RemoveDenyRule removes a pattern from the deny list. Returns true if it
// was present.
func (c Content) RemoveDenyRule(pattern string) bool {
	return c.removeRule(KeyPermissionDeny, c.DenyRules(), pattern)
}

func (c Content) removeRule(key string, existing []string, pattern string) bool {
	kept := make([]string, 0, len(existing))
	found := false
	for _, p := range existing {
		if p == pattern {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if found {
		c.permissions()[key] = toInterfaceSlice(kept)
	}
	return found
}

// Env returns the environment variable map.
func (c Content) Env() map[string]string {
	raw, ok := c[KeyEnv].(map[string]interface{})
	if !ok {
		return nil
	}
	env := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			env[k] = s
		}
	}
	return env
}

// SetEnv sets an environment variable. Env keys may contain dots, so this
// bypasses field-path traversal.
func (c Content) SetEnv(key, value string) {
	env, ok := c[KeyEnv].(map[string]interface{})
	if !ok {
		env = make(map[string]interface{})
		c[KeyEnv] = env
	}
	env[key] = value
}

// UnsetEnv removes an environment variable. Returns true if it was present.
func (c Content) UnsetEnv(key string) bool {
	env, ok := c[KeyEnv].(map[string]interface{})
	if !ok {
		return false
	}
	if _, present := env[key]; !present {
		return false
	}
	delete(env, key)
	return true
}

// Attribution returns the attribution flags, defaulting to false for absent
// fields.
func (c Content) Attribution() Attribution {
	raw, ok := c[KeyAttribution].(map[string]interface{})
	if !ok {
		return Attribution{}
	}
	commits, _ := raw["commits"].(bool)
	prs, _ := raw["pullRequests"].(bool)
	return Attribution{Commits: commits, PullRequests: prs}
}

// SetAttribution writes both attribution flags.
func (c Content) SetAttribution(a Attribution) {
	raw, ok := c[KeyAttribution].(map[string]interface{})
	if !ok {
		raw = make(map[string]interface{})
		c[KeyAttribution] = raw
	}
	raw["commits"] = a.Commits
	raw["pullRequests"] = a.PullRequests
}

// DisallowedTools returns the disallowed tool list.
func (c Content) DisallowedTools() []string {
	return stringList(c[KeyDisallowedTools])
}

// AddDisallowedTool appends a tool name if not already present. Returns true
// if it was added.
func (c Content) AddDisallowedTool(tool string) bool {
	existing := c.DisallowedTools()
	for _, t := range existing {
		if t == tool {
			return false
		}
	}
	c[KeyDisallowedTools] = toInterfaceSlice(append(existing, tool))
	return true
}

// RemoveDisallowedTool removes a tool name. Returns true if it was present.
func (c Content) RemoveDisallowedTool(tool string) bool {
	existing := c.DisallowedTools()
	kept := make([]string, 0, len(existing))
	found := false
	for _, t := range existing {
		if t == tool {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if found {
		c[KeyDisallowedTools] = toInterfaceSlice(kept)
	}
	return found
}
