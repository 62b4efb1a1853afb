// Package handler publishes badges in response to build completion events.
package handler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/badges"
	"github.com/savaki/build-badges/internal/constants"
	"github.com/savaki/build-badges/internal/errors"
	"github.com/savaki/build-badges/internal/models"
	"github.com/savaki/build-badges/internal/services"
	"github.com/segmentio/ksuid"
)

// Publisher copies a badge object within a bucket
type Publisher interface {
	CopyBadge(ctx context.Context, bucket, src, dest string) error
}

// Handler publishes the trigger and research badges for build events
// into a single bucket.
type Handler struct {
	bucket    string
	selector  *badges.Selector
	publisher Publisher
}

// New returns a Handler publishing to config.BadgesBucket
func New(config *services.Config, selector *badges.Selector, publisher Publisher) (*Handler, error) {
	if config == nil || config.BadgesBucket == "" {
		return nil, errors.ErrBadgesBucketRequired
	}
	if selector == nil {
		selector = badges.NewSelector(nil)
	}

	return &Handler{
		bucket:    config.BadgesBucket,
		selector:  selector,
		publisher: publisher,
	}, nil
}

// HandleMessage decodes msg and publishes the badges it calls for
func (h *Handler) HandleMessage(ctx context.Context, msg models.Message) error {
	logger := zerolog.Ctx(ctx).With().
		Str("invocation_id", ksuid.New().String()).
		Str("message_id", msg.MessageID).
		Logger()
	ctx = logger.WithContext(ctx)

	event, err := models.DecodeMessage(msg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to decode build event")
		return err
	}

	_, err = h.HandleBuildEvent(ctx, event)
	return err
}

// HandleBuildEvent publishes the trigger badge and the research badge
// for event, in that order, and returns the keys written. The first
// failure aborts the invocation; the research badge is not attempted
// when the trigger badge fails.
func (h *Handler) HandleBuildEvent(ctx context.Context, event models.BuildEvent) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	subs := event.Substitutions

	var published []string

	if subs.HasAll(constants.TriggerSubstitutions...) {
		var (
			repo    = subs[constants.RepoName]
			branch  = subs[constants.BranchName]
			trigger = subs[constants.TriggerName]
			src     = h.selector.Select(trigger, event.Status)
			dest    = badges.TriggerBadgePath(repo, branch, trigger)
		)

		if err := h.publisher.CopyBadge(ctx, h.bucket, src, dest); err != nil {
			return published, fmt.Errorf("failed to publish trigger badge: %w", err)
		}
		published = append(published, dest)

		logger.Info().
			Str("src", src).
			Str("dest", dest).
			Str("status", event.Status).
			Msg("Created badge from trigger info")
	}

	if event.HasTag(constants.ResearchTag) && subs.HasAll(constants.ResearchSubstitutions...) {
		var (
			testName  = subs[constants.TestName]
			flippyTag = subs[constants.FlippyTagClean]
			commitish = subs[constants.CommitishClean]
			src       = badges.StatusBadge(event.Status)
			dest      = badges.ResearchBadgePath(testName, flippyTag, commitish)
		)

		if err := h.publisher.CopyBadge(ctx, h.bucket, src, dest); err != nil {
			return published, fmt.Errorf("failed to publish research badge: %w", err)
		}
		published = append(published, dest)

		logger.Info().
			Str("src", src).
			Str("dest", dest).
			Str("status", event.Status).
			Msg("Created badge from research build substitutions")
	}

	if len(published) == 0 {
		logger.Debug().Msg("Build event carried no badge substitutions")
	}

	return published, nil
}
