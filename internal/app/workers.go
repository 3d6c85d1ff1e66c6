package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lina3386/kontos-bot/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

const workerQueueSize = 64

type updateHandler func(ctx context.Context, update tgbotapi.Update)

// dispatch fans updates out to workers goroutines. Updates from one sender
// always land on the same worker, so each user's messages are answered in
// arrival order. It returns once updates is closed and drained, or ctx is done.
func dispatch(ctx context.Context, updates <-chan tgbotapi.Update, workers int, handle updateHandler) error {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	queues := make([]chan tgbotapi.Update, workers)
	for i := range queues {
		queue := make(chan tgbotapi.Update, workerQueueSize)
		queues[i] = queue

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case update, ok := <-queue:
					if !ok {
						return nil
					}
					handleSafely(ctx, handle, update)
				}
			}
		})
	}

	g.Go(func() error {
		defer func() {
			for _, queue := range queues {
				close(queue)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				select {
				case queues[shard(update, workers)] <- update:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})

	return g.Wait()
}

func handleSafely(ctx context.Context, handle updateHandler, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("update handler panicked",
				slog.String(logger.FieldComponent, logger.ComponentApp),
				slog.Int("update_id", update.UpdateID),
				slog.String(logger.FieldError, fmt.Sprint(r)),
			)
		}
	}()
	handle(ctx, update)
}

func shard(update tgbotapi.Update, workers int) int {
	return int(uint64(senderID(update)) % uint64(workers))
}

func senderID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.EditedMessage != nil && update.EditedMessage.From != nil:
		return update.EditedMessage.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	default:
		return 0
	}
}
