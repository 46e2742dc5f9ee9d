package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/rental"
)

// ensureCalendarBlock makes sure exactly one occupancy block covers the
// reservation's date range. The block ID is derived from the triple, so
// repeat runs regenerate the same ID and the existence check stays cheap.
// Returns true when a new block was inserted.
func (e *executor) ensureCalendarBlock(ctx context.Context, res rental.Reservation) (bool, error) {
	start := rental.Day(res.CheckIn)
	end := rental.Day(res.CheckOut)

	exists, err := e.store.CalendarBlockExists(ctx, e.tenantID, res.PropertyID, start, end)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if e.dryRun {
		return true, nil
	}

	now := time.Now().UTC()
	block := rental.CalendarBlock{
		ID:         fmt.Sprintf("blk-%s-%s-%s", res.PropertyID, start.Format("2006-01-02"), end.Format("2006-01-02")),
		TenantID:   e.tenantID,
		PropertyID: res.PropertyID,
		StartDate:  start,
		EndDate:    end,
		Nights:     res.Nights,
		Type:       rental.BlockTypeBlock,
		Subtype:    rental.BlockSubtypeReservation,
		Reason:     fmt.Sprintf("Reserva Stays.net: %s", res.ExternalID),
		Notes:      fmt.Sprintf("Reserva sincronizada do Stays.net - %d hóspede(s)", res.Occupants.Total),

		SourceReservationID: res.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := e.store.InsertCalendarBlock(ctx, block); err != nil {
		// A concurrent worker can win the race between the existence
		// check and the insert. The block is there either way.
		if errors.IsAlreadyExists(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
