package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
)

// OpenParams holds everything needed to originate an instrument.
type OpenParams struct {
	Category       model.Category
	CounterpartyID uuid.UUID
	Label          string
	Principal      decimal.Decimal
	Fees           decimal.Decimal
	InterestRate   decimal.Decimal
	InterestMode   model.InterestMode
	OriginDate     time.Time
	DueDate        *time.Time
}

// OpenInstrument validates and creates a new loan or bill. The instrument
// starts active with version 1; from here on it only ever gains
// transactions or flips inactive once settled.
func (e *Engine) OpenInstrument(p OpenParams) (*model.Instrument, error) {
	if _, err := e.store.GetCounterparty(p.CounterpartyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inst := &model.Instrument{
		ID:             uuid.New(),
		Category:       p.Category,
		CounterpartyID: p.CounterpartyID,
		Label:          p.Label,
		Principal:      p.Principal,
		Fees:           p.Fees,
		InterestRate:   p.InterestRate,
		InterestMode:   p.InterestMode,
		OriginDate:     p.OriginDate,
		DueDate:        p.DueDate,
		Active:         true,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if verrs := ValidateInstrument(*inst); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	if err := e.store.CreateInstrument(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// CorrectInstrument applies an explicit correction to an instrument's terms.
// Principal is otherwise immutable after creation; corrections revalidate,
// go through the versioned write path retried on conflict, and leave an
// audit record naming the actor.
func (e *Engine) CorrectInstrument(instrumentID uuid.UUID, actorID string, apply func(*model.Instrument)) (*model.Instrument, error) {
	if actorID == "" {
		return nil, fmt.Errorf("correction requires an acting user")
	}

	var inst *model.Instrument
	err := e.withRetry("correct instrument", func() error {
		var err error
		inst, err = e.store.GetInstrument(instrumentID)
		if err != nil {
			return err
		}
		apply(inst)

		if verrs := ValidateInstrument(*inst); len(verrs) > 0 {
			msgs := make([]string, len(verrs))
			for i, ve := range verrs {
				msgs[i] = ve.Error()
			}
			return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
		}
		return e.store.UpdateInstrument(inst)
	})
	if err != nil {
		return nil, err
	}

	e.recordAudit(actorID, "correct-instrument", inst.ID.String(),
		fmt.Sprintf("terms corrected on %q", inst.Label))
	return inst, nil
}
