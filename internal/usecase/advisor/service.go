// Package advisor narrates search results for a user, through a language
// model when one is configured and a fixed template otherwise.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	"github.com/kailas-cloud/careerdex/internal/metrics"
)

// SystemPrompt frames the model as a career counselor.
const SystemPrompt = "You are an expert Career Counselor. Be encouraging, professional, and concise."

// ProviderTemplate labels template-generated advice in metrics.
const ProviderTemplate = "template"

// Options tune language model completions.
type Options struct {
	Provider    string
	Temperature float32
	MaxTokens   int
}

// Service generates advice. It never returns an error: provider failures
// become part of the advice text.
type Service struct {
	completer domain.Completer
	opts      Options
	logger    *zap.Logger
}

// New creates an advisor. A nil completer selects the template.
func New(completer domain.Completer, opts Options, logger *zap.Logger) *Service {
	if completer == nil {
		opts.Provider = ProviderTemplate
	}
	return &Service{completer: completer, opts: opts, logger: logger}
}

// Provider returns the active provider label.
func (s *Service) Provider() string { return s.opts.Provider }

// GenerateAdvice returns a short narrative about the best matches.
func (s *Service) GenerateAdvice(
	ctx context.Context, p profile.Profile, results []recommendation.Result,
) string {
	start := time.Now()
	defer func() {
		metrics.AdvisorDuration.WithLabelValues(s.opts.Provider).Observe(time.Since(start).Seconds())
	}()

	if s.completer == nil {
		metrics.AdvisorRequestsTotal.WithLabelValues(ProviderTemplate, "success").Inc()
		return TemplateAdvice(p, results)
	}

	text, err := s.completer.Complete(ctx, domain.CompletionRequest{
		System:      SystemPrompt,
		User:        UserPrompt(p, results),
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		metrics.AdvisorRequestsTotal.WithLabelValues(s.opts.Provider, "error").Inc()
		s.logger.Warn("Advice generation failed",
			zap.String("provider", s.opts.Provider),
			zap.Error(err),
		)
		return "Could not generate advice: " + err.Error()
	}
	metrics.AdvisorRequestsTotal.WithLabelValues(s.opts.Provider, "success").Inc()
	return strings.TrimSpace(text)
}

// TemplateAdvice is the deterministic advice used without a language model.
func TemplateAdvice(p profile.Profile, results []recommendation.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf(
			"Based on your interest in '%s', we could not find a matching career at your education level. "+
				"Try describing your interests differently or raising the education level.",
			p.Interests,
		)
	}
	return fmt.Sprintf(
		"Based on your interest in '%s', I highly recommend looking into **%s**. "+
			"Your skills in %s align perfectly with this role.",
		p.Interests, results[0].Title, p.Skills,
	)
}

// UserPrompt renders the profile and candidate titles for the model.
func UserPrompt(p profile.Profile, results []recommendation.Result) string {
	titles := recommendation.Titles(results)
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = "'" + t + "'"
	}

	var b strings.Builder
	b.WriteString("Analyze this user profile:\n")
	fmt.Fprintf(&b, "- Interests: %s\n", p.Interests)
	fmt.Fprintf(&b, "- Skills: %s\n", p.Skills)
	fmt.Fprintf(&b, "- Age: %d\n\n", p.Age)
	b.WriteString("We have identified these top career matches from our database:\n")
	fmt.Fprintf(&b, "[%s]\n\n", strings.Join(quoted, ", "))
	b.WriteString("Task:\n")
	b.WriteString("1. Select the #1 best option and explain WHY it fits their specific skills.\n")
	b.WriteString("2. Suggest one \"alternative path\" from the list for variety.\n")
	b.WriteString("3. Keep the response under 100 words.\n")
	return b.String()
}
