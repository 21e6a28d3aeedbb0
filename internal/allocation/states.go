package allocation

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-mandate/internal/domain"
)

// ApportionStates decomposes every party's federal seat count into
// per-state seat counts by an independent Sainte-Laguë apportionment
// over the party's state-list second votes.
//
// The sub-apportionments are independent per party and run concurrently;
// each reads only its own party's vote data. For every party the
// returned seat counts sum exactly to its federal seat count, because
// the quotient pool size matches the budget by construction.
//
// Tie-break: equal quotients go to the higher state vote total, then the
// lower state id.
func ApportionStates(ctx context.Context, agg *Aggregates, federal *FederalResult) ([]domain.StateAllocation, error) {
	parties := make([]domain.FederalAllocation, 0, len(federal.Allocations))
	for _, fa := range federal.Allocations {
		if fa.Seats > 0 {
			parties = append(parties, fa)
		}
	}

	perParty := make([][]domain.StateAllocation, len(parties))
	g, ctx := errgroup.WithContext(ctx)
	for i, fa := range parties {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rows, err := apportionPartyStates(agg, fa)
			if err != nil {
				return err
			}
			perParty[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allocations := make([]domain.StateAllocation, 0, len(parties)*4)
	for _, rows := range perParty {
		allocations = append(allocations, rows...)
	}
	sort.Slice(allocations, func(i, j int) bool {
		if allocations[i].PartyID != allocations[j].PartyID {
			return allocations[i].PartyID < allocations[j].PartyID
		}
		return allocations[i].StateID < allocations[j].StateID
	})
	return allocations, nil
}

// apportionPartyStates runs one party's sub-apportionment. A party with
// federal seats but no state-list votes cannot occur with coherent
// input, since its federal seats were awarded from those same votes;
// it is reported as an integrity failure rather than papered over.
func apportionPartyStates(agg *Aggregates, fa domain.FederalAllocation) ([]domain.StateAllocation, error) {
	stateVotes := agg.StateVotesByParty[fa.PartyID]

	claims := make([]claim, 0, len(stateVotes))
	for stateID, votes := range stateVotes {
		if votes > 0 {
			claims = append(claims, claim{id: stateID, votes: votes})
		}
	}
	if len(claims) == 0 {
		return nil, domain.NewStageError(stageStates,
			fmt.Sprintf("party=%d seats=%d", fa.PartyID, fa.Seats),
			domain.ErrUnknownReference)
	}

	seats, err := highestQuotients(claims, fa.Seats)
	if err != nil {
		return nil, domain.NewStageError(stageStates, fmt.Sprintf("party=%d", fa.PartyID), err)
	}

	rows := make([]domain.StateAllocation, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, domain.StateAllocation{
			PartyID:     fa.PartyID,
			StateID:     c.id,
			Year:        agg.Year,
			SecondVotes: c.votes,
			Seats:       seats[c.id],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StateID < rows[j].StateID })
	return rows, nil
}
