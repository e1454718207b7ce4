package service

import (
	"context"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceCacheTTL bounds how long the public price check may serve a stale
// price after a change that slipped past invalidation.
const PriceCacheTTL = 4 * time.Hour

// PriceCacheKey is the redis key the public price check caches under and the
// key ApproveChange invalidates.
func PriceCacheKey(barcode string) string { return "precio:" + barcode }

var hundred = decimal.NewFromInt(100)

// PriceService applies supervised price changes. Same transactional shape as
// the session engine: serializable tx, product row lock NOWAIT, immutable
// history row and audit entry committed together with the price update.
type PriceService interface {
	// ApproveChange moves a product to a new price. Deltas above the
	// configured threshold require a supervisor PIN and a mandatory audit.
	ApproveChange(ctx context.Context, actorID uuid.UUID, req dto.PriceChangeRequest) (*dto.PriceChangeResponse, error)
	History(ctx context.Context, productID uuid.UUID, limit int) ([]dto.PriceChangeEntry, error)
}

type priceService struct {
	products   repository.ProductRepository
	changes    repository.PriceChangeRepository
	audit      AuditRecorder
	authorizer Authorizer
	rdb        *redis.Client
	// stepUpPct is the |delta %| above which a supervisor PIN is required.
	stepUpPct decimal.Decimal
}

func NewPriceService(
	products repository.ProductRepository,
	changes repository.PriceChangeRepository,
	audit AuditRecorder,
	authorizer Authorizer,
	rdb *redis.Client,
	stepUpPct float64,
) PriceService {
	return &priceService{
		products:   products,
		changes:    changes,
		audit:      audit,
		authorizer: authorizer,
		rdb:        rdb,
		stepUpPct:  decimal.NewFromFloat(stepUpPct),
	}
}

func (s *priceService) ApproveChange(ctx context.Context, actorID uuid.UUID, req dto.PriceChangeRequest) (*dto.PriceChangeResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "product_id inválido")
	}
	if !req.NewPrice.IsPositive() {
		return nil, apperr.New(apperr.Validation, "El precio debe ser mayor a cero")
	}

	// Provisional read to decide whether step-up applies; the decision is
	// re-checked against the locked row inside the transaction.
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, refineProductErr(repository.Translate(err))
	}

	var supervisor *model.User
	if s.requiresStepUp(product.Price, req.NewPrice) {
		if req.SupervisorPIN == "" {
			return nil, apperr.New(apperr.Unauthorized,
				"El cambio supera el umbral permitido y requiere PIN de supervisor")
		}
		if !pinPattern.MatchString(req.SupervisorPIN) {
			return nil, apperr.New(apperr.Validation, "El PIN debe tener entre 4 y 8 dígitos")
		}
		// Outside the engine tx so failure counters survive a rollback.
		supervisor, err = s.authorizer.Authorize(ctx, req.SupervisorPIN, model.AuthorizerRoles)
		if err != nil {
			return nil, err
		}
	}

	var (
		resp    dto.PriceChangeResponse
		barcode string
	)

	txErr := runSerializableTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		locked, err := s.products.LockByID(ctx, tx, productID)
		if err != nil {
			return refineProductErr(err)
		}
		barcode = locked.Barcode

		// A retried request whose change already landed: succeed without a
		// second history row.
		if locked.Price.Equal(req.NewPrice) {
			resp = dto.PriceChangeResponse{
				ProductID: productID.String(),
				OldPrice:  locked.Price,
				NewPrice:  locked.Price,
				DeltaPct:  decimal.Zero,
				Unchanged: true,
			}
			return nil
		}

		// The locked price is the authoritative base for the delta. If a
		// concurrent change pushed this request over the threshold, the
		// caller has to come back with a PIN.
		delta := deltaPct(locked.Price, req.NewPrice)
		if s.requiresStepUp(locked.Price, req.NewPrice) && supervisor == nil {
			return apperr.New(apperr.Unauthorized,
				"El cambio supera el umbral permitido y requiere PIN de supervisor")
		}

		change := &model.PriceChange{
			ID:        uuid.New(),
			ProductID: productID,
			UserID:    actorID,
			OldPrice:  locked.Price,
			NewPrice:  req.NewPrice,
			DeltaPct:  delta,
			Reason:    req.Reason,
		}
		if supervisor != nil {
			supID := supervisor.ID
			change.AuthorizedBy = &supID
		}
		if err := s.changes.CreateTx(ctx, tx, change); err != nil {
			return repository.Translate(err)
		}
		if err := s.products.UpdatePriceTx(ctx, tx, productID, req.NewPrice); err != nil {
			return repository.Translate(err)
		}

		entry := AuditEntry{
			Actor:      actorID,
			ActionCode: model.AuditPriceChange,
			EntityType: model.EntityProduct,
			EntityID:   productID,
			Before:     map[string]any{"price": locked.Price},
			After:      map[string]any{"price": req.NewPrice, "delta_pct": delta},
		}
		crit := BestEffort
		if supervisor != nil {
			entry.ActionCode = model.AuditPriceChangeAuthorized
			entry.After = map[string]any{
				"price": req.NewPrice, "delta_pct": delta, "authorized_by": supervisor.Username,
			}
			crit = Mandatory
		}
		if err := s.audit.Record(ctx, tx, entry, crit); err != nil {
			return err
		}

		resp = dto.PriceChangeResponse{
			ProductID: productID.String(),
			OldPrice:  locked.Price,
			NewPrice:  req.NewPrice,
			DeltaPct:  delta,
		}
		if supervisor != nil {
			supID := supervisor.ID.String()
			resp.AuthorizedBy = &supID
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit cache invalidation: the public price check must stop
	// serving the old figure. Best effort, the TTL is the backstop.
	if s.rdb != nil && !resp.Unchanged {
		if err := s.rdb.Del(ctx, PriceCacheKey(barcode)).Err(); err != nil {
			log.Warn().Err(err).Str("barcode", barcode).Msg("price cache invalidation failed")
		}
	}
	return &resp, nil
}

func (s *priceService) History(ctx context.Context, productID uuid.UUID, limit int) ([]dto.PriceChangeEntry, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, refineProductErr(repository.Translate(err))
	}
	changes, err := s.changes.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, repository.Translate(err)
	}

	entries := make([]dto.PriceChangeEntry, 0, len(changes))
	for i := range changes {
		c := &changes[i]
		e := dto.PriceChangeEntry{
			ID:        c.ID.String(),
			OldPrice:  c.OldPrice,
			NewPrice:  c.NewPrice,
			DeltaPct:  c.DeltaPct,
			Reason:    c.Reason,
			ChangedBy: c.UserID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
		if c.AuthorizedBy != nil {
			auth := c.AuthorizedBy.String()
			e.AuthorizedBy = &auth
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// requiresStepUp reports whether moving between the two prices crosses the
// supervisor threshold. A product without an established price (base == 0)
// always requires step-up.
func (s *priceService) requiresStepUp(base, target decimal.Decimal) bool {
	if base.IsZero() {
		return !target.Equal(base)
	}
	return deltaPct(base, target).Abs().GreaterThan(s.stepUpPct)
}

// deltaPct returns the signed percentage change, 2 decimals. With no base
// price to compare against it reports a full 100% movement.
func deltaPct(base, target decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		if target.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return target.Sub(base).Div(base).Mul(hundred).Round(2)
}

func refineProductErr(err error) error {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return apperr.Wrap(apperr.NotFound, "Producto no encontrado", err)
	case apperr.Busy:
		return apperr.Wrap(apperr.Busy, "El producto está siendo modificado por otra operación, reintente", err)
	}
	return err
}
