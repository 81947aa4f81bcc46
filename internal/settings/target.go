package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// SettingsDir is the directory containing Claude settings within a scope.
const SettingsDir = ".claude"

// File names for the recognized editing targets.
const (
	GlobalFileName = "settings.json"
	LocalFileName  = "settings.local.json"
	MCPFileName    = ".mcp.json"
)

// Scope distinguishes global settings from per-project settings.
type Scope int

const (
	// ScopeGlobal is the user-wide settings context under the home directory.
	ScopeGlobal Scope = iota
	// ScopeProject is a per-project settings context under the project root.
	ScopeProject
)

// String returns a human-readable scope name.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeProject:
		return "project"
	default:
		return "unknown"
	}
}

// TargetKind identifies which physical settings file an edit applies to.
// Each kind resolves to its own file; edits never merge across kinds.
type TargetKind int

const (
	// TargetGlobal is ~/.claude/settings.json.
	TargetGlobal TargetKind = iota
	// TargetProject is <root>/.claude/settings.json.
	TargetProject
	// TargetLocal is <root>/.claude/settings.local.json (gitignored overrides).
	TargetLocal
	// TargetMCP is <root>/.mcp.json.
	TargetMCP
)

// String returns the CLI name of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetGlobal:
		return "global"
	case TargetProject:
		return "project"
	case TargetLocal:
		return "local"
	case TargetMCP:
		return "mcp"
	default:
		return "unknown"
	}
}

// ParseTargetKind converts a CLI name into a TargetKind.
func ParseTargetKind(name string) (TargetKind, error) {
	switch name {
	case "global":
		return TargetGlobal, nil
	case "project":
		return TargetProject, nil
	case "local":
		return TargetLocal, nil
	case "mcp":
		return TargetMCP, nil
	default:
		return 0, fmt.Errorf("unknown settings target %q", name)
	}
}

// Target is a resolvable editing target: a target kind plus the project root
// it applies to (empty for the global target).
type Target struct {
	Kind        TargetKind
	ProjectRoot string
}

// GlobalTarget returns the target for ~/.claude/settings.json.
func GlobalTarget() Target {
	return Target{Kind: TargetGlobal}
}

// ProjectTarget returns a project-scoped target rooted at projectRoot.
func ProjectTarget(kind TargetKind, projectRoot string) Target {
	return Target{Kind: kind, ProjectRoot: projectRoot}
}

// Scope returns the scope the target belongs to.
func (t Target) Scope() Scope {
	if t.Kind == TargetGlobal {
		return ScopeGlobal
	}
	return ScopeProject
}

// Path resolves the absolute file path for the target.
func (t Target) Path() (string, error) {
	switch t.Kind {
	case TargetGlobal:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, SettingsDir, GlobalFileName), nil
	case TargetProject:
		if t.ProjectRoot == "" {
			return "", fmt.Errorf("project target requires a project root")
		}
		return filepath.Join(t.ProjectRoot, SettingsDir, GlobalFileName), nil
	case TargetLocal:
		if t.ProjectRoot == "" {
			return "", fmt.Errorf("local target requires a project root")
		}
		return filepath.Join(t.ProjectRoot, SettingsDir, LocalFileName), nil
	case TargetMCP:
		if t.ProjectRoot == "" {
			return "", fmt.Errorf("mcp target requires a project root")
		}
		return filepath.Join(t.ProjectRoot, MCPFileName), nil
	default:
		return "", fmt.Errorf("unknown target kind %d", t.Kind)
	}
}

// String returns a short description like "local (/path/to/project)".
func (t Target) String() string {
	if t.Kind == TargetGlobal {
		return "global"
	}
	return fmt.Sprintf("%s (%s)", t.Kind, t.ProjectRoot)
}
