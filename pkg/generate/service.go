package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// DefaultTimeout bounds a single generation.
const DefaultTimeout = 2 * time.Minute

// Service is the host boundary for agent prompts. Every outcome, including
// errors, is reported in the returned result.
type Service struct {
	generator Generator
	timeout   time.Duration
	logger    *logging.Logger
}

// NewService creates a service. A non-positive timeout disables it.
func NewService(generator Generator, timeout time.Duration, logger *logging.Logger) *Service {
	return &Service{generator: generator, timeout: timeout, logger: logger}
}

// SubmitAgentPrompt generates a document for text.
func (s *Service) SubmitAgentPrompt(ctx context.Context, text string) types.AgentResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.NewAgentFailure(ErrEmptyPrompt.Error())
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	doc, err := s.generator.Generate(ctx, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("generation timed out after %s", s.timeout)
		}
		s.logger.Warnf("agent prompt %q failed after %s: %v", text, time.Since(started), err)
		return types.NewAgentFailure(err.Error())
	}

	s.logger.Infof("agent prompt %q answered in %s", text, time.Since(started))
	return types.NewAgentSuccess(doc)
}
