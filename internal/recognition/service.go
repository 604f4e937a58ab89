package recognition

import (
	"context"
	"log/slog"

	"cashbook/internal"
	"cashbook/internal/category"
)

// Completer is the upstream vision completion call.
type Completer interface {
	CompleteWithImage(ctx context.Context, apiKey, model, prompt, imageBase64 string) (string, error)
}

// CategoryProvider supplies the caller's visible categories. They are
// fetched fresh on every recognition call so a category created a moment
// ago shows up in the very next prompt.
type CategoryProvider interface {
	VisibleCategories(userID string) (income, expense []category.Category, err error)
}

type Service struct {
	completer  Completer
	categories CategoryProvider
	apiKey     string
	model      string
	logger     *slog.Logger

	// slots serializes upstream calls; one recognition in flight at a time.
	slots chan struct{}
}

func NewService(completer Completer, categories CategoryProvider, apiKey, model string, logger *slog.Logger) *Service {
	if model == "" {
		model = internal.DefaultRecognitionModel
	}
	return &Service{
		completer:  completer,
		categories: categories,
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
		slots:      make(chan struct{}, 1),
	}
}

// Recognize runs the full pipeline for one image: credential resolution,
// prompt construction against live categories, a single upstream call, then
// lenient parsing and normalization. There are no retries; a failed call
// surfaces to the client as-is.
func (s *Service) Recognize(ctx context.Context, userID string, dto RecognizeDTO) ([]Proposal, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingImage)
	}

	apiKey := dto.APIKey
	if apiKey == "" {
		apiKey = s.apiKey
	}
	if apiKey == "" {
		return nil, internal.NewConfigError("no recognition API key configured")
	}

	model := dto.Model
	if model == "" {
		model = s.model
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-ctx.Done():
		return nil, internal.NewInternalError("recognition cancelled while queued", ctx.Err())
	}

	income, expense, err := s.categories.VisibleCategories(userID)
	if err != nil {
		s.logger.Error("failed to load categories for recognition", "error", err, "user_id", userID)
		return nil, err
	}

	prompt := BuildPrompt(income, expense)

	content, err := s.completer.CompleteWithImage(ctx, apiKey, model, prompt, dto.ImageBase64)
	if err != nil {
		s.logger.Error("recognition completion failed", "error", err, "user_id", userID, "model", model)
		return nil, err
	}

	proposals, err := ParseProposals(content)
	if err != nil {
		s.logger.Error("failed to parse recognition result", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("recognition complete", "user_id", userID, "model", model, "proposals", len(proposals))
	return proposals, nil
}
