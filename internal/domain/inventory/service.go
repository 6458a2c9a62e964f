package inventory

import (
	"context"
	"log/slog"

	"github.com/example/inventory-api/internal/clock"
	"github.com/example/inventory-api/internal/event"
	"github.com/example/inventory-api/internal/logging"
)

// Authenticator confirms a token was issued to the given user.
type Authenticator interface {
	Authenticate(userID int64, token string) error
}

// Service gates every store operation behind Authenticate.
type Service struct {
	auth      Authenticator
	store     Store
	publisher event.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewService creates a new inventory service. publisher, c and logger may be
// nil.
func NewService(auth Authenticator, store Store, publisher event.Publisher, c clock.Clock, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if c == nil {
		c = clock.NewSystem()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		auth:      auth,
		store:     store,
		publisher: publisher,
		clock:     c,
		logger:    logger,
	}
}

func (s *Service) GetInventory(ctx context.Context, userID int64, token string) ([]Item, error) {
	if err := s.auth.Authenticate(userID, token); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID int64, token string, item Item) (*Item, error) {
	if err := s.auth.Authenticate(userID, token); err != nil {
		return nil, err
	}

	added, err := s.store.Add(ctx, userID, item)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeItemAdded, userID, event.ItemAdded{
		ItemID:   added.ID,
		Name:     added.Name,
		Quantity: added.Quantity,
		Capacity: added.Capacity,
		Price:    added.Price,
	})
	return &added, nil
}

func (s *Service) UpdateItemQuantity(ctx context.Context, userID, itemID int64, token string, quantity int) (*Item, error) {
	if err := s.auth.Authenticate(userID, token); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeItemQuantityUpdated, userID, event.ItemQuantityUpdated{
		ItemID:   itemID,
		Quantity: quantity,
	})
	return &updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, userID, itemID int64, token string) error {
	if err := s.auth.Authenticate(userID, token); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, userID, itemID); err != nil {
		return err
	}

	s.publish(ctx, event.TypeItemDeleted, userID, event.ItemDeleted{ItemID: itemID})
	return nil
}

// publish is best-effort: a broker failure never fails the operation.
func (s *Service) publish(ctx context.Context, eventType string, userID int64, data any) {
	e, err := event.New(eventType, userID, data, s.clock.Now())
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "publish event failed", "type", eventType, "user_id", userID, "error", err)
	}
}
