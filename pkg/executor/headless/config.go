package headless

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultExpectTimeout bounds an expect step without its own timeout.
	DefaultExpectTimeout = 15 * time.Second

	// DefaultScriptTimeout bounds a whole run.
	DefaultScriptTimeout = 10 * time.Minute
)

// Script is a scripted browsing session.
type Script struct {
	Name string `yaml:"name" json:"name"`

	// Timeout bounds the whole run (default: 10m)
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// ExpectTimeout is the default for expect steps (default: 15s)
	ExpectTimeout time.Duration `yaml:"expect_timeout" json:"expect_timeout"`

	Steps []Step `yaml:"steps" json:"steps"`

	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
}

// Step is one action. Exactly one field must be set.
type Step struct {
	// Input types text into the omnibar and submits it.
	Input *string `yaml:"input,omitempty" json:"input,omitempty"`

	// Agent submits text through the ask-agent control.
	Agent *string `yaml:"agent,omitempty" json:"agent,omitempty"`

	NewTab   bool `yaml:"new_tab,omitempty" json:"new_tab,omitempty"`
	CloseTab bool `yaml:"close_tab,omitempty" json:"close_tab,omitempty"`

	// Activate switches to the tab at this zero-based position.
	Activate *int `yaml:"activate,omitempty" json:"activate,omitempty"`

	Back    bool `yaml:"back,omitempty" json:"back,omitempty"`
	Forward bool `yaml:"forward,omitempty" json:"forward,omitempty"`
	Reload  bool `yaml:"reload,omitempty" json:"reload,omitempty"`

	// Wait pauses the script.
	Wait time.Duration `yaml:"wait,omitempty" json:"wait,omitempty"`

	Expect *Expectation `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Expectation is polled until every set field matches or it times out.
// Address, Status and Label are glob patterns.
type Expectation struct {
	Address string        `yaml:"address,omitempty" json:"address,omitempty"`
	Status  string        `yaml:"status,omitempty" json:"status,omitempty"`
	Label   string        `yaml:"label,omitempty" json:"label,omitempty"`
	Mode    string        `yaml:"mode,omitempty" json:"mode,omitempty"`
	Tabs    *int          `yaml:"tabs,omitempty" json:"tabs,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ArtifactConfig controls the run report.
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// Action names used in reports.
const (
	ActionInput    = "input"
	ActionAgent    = "agent"
	ActionNewTab   = "new_tab"
	ActionCloseTab = "close_tab"
	ActionActivate = "activate"
	ActionBack     = "back"
	ActionForward  = "forward"
	ActionReload   = "reload"
	ActionWait     = "wait"
	ActionExpect   = "expect"
)

// Action returns the name of the single action the step performs, or ""
// when none or several are set.
func (s Step) Action() string {
	var actions []string
	if s.Input != nil {
		actions = append(actions, ActionInput)
	}
	if s.Agent != nil {
		actions = append(actions, ActionAgent)
	}
	if s.NewTab {
		actions = append(actions, ActionNewTab)
	}
	if s.CloseTab {
		actions = append(actions, ActionCloseTab)
	}
	if s.Activate != nil {
		actions = append(actions, ActionActivate)
	}
	if s.Back {
		actions = append(actions, ActionBack)
	}
	if s.Forward {
		actions = append(actions, ActionForward)
	}
	if s.Reload {
		actions = append(actions, ActionReload)
	}
	if s.Wait > 0 {
		actions = append(actions, ActionWait)
	}
	if s.Expect != nil {
		actions = append(actions, ActionExpect)
	}
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

// Validate validates the script and fills defaults.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if s.ExpectTimeout < 0 {
		return fmt.Errorf("expect_timeout cannot be negative")
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultScriptTimeout
	}
	if s.ExpectTimeout == 0 {
		s.ExpectTimeout = DefaultExpectTimeout
	}

	for i, step := range s.Steps {
		if step.Action() == "" {
			return fmt.Errorf("step %d: exactly one action is required", i+1)
		}
		if step.Activate != nil && *step.Activate < 0 {
			return fmt.Errorf("step %d: activate index cannot be negative", i+1)
		}
		if step.Expect != nil {
			if step.Expect.Timeout < 0 {
				return fmt.Errorf("step %d: expect timeout cannot be negative", i+1)
			}
			if _, err := compileExpectation(*step.Expect); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}

	if s.Artifacts.Enabled && s.Artifacts.OutputDir == "" {
		s.Artifacts.OutputDir = ".agentbrowser/runs"
	}
	return nil
}

// LoadScript reads and validates a YAML script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	script := &Script{}
	if err := yaml.Unmarshal(data, script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return script, nil
}
