// Package sync drives the push-then-pull cycle that reconciles the local
// ledger with the remote authoritative store.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"

	"github.com/kasku-app/kasku/internal/client/mirror"
	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/client/remote"
	"github.com/kasku-app/kasku/internal/client/repositories/menus"
	"github.com/kasku-app/kasku/internal/client/repositories/syncstate"
	"github.com/kasku-app/kasku/internal/client/repositories/transactions"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/logging"
	"github.com/kasku-app/kasku/internal/syncapi"
)

// Orchestrator runs one logical, non-reentrant sync cycle at a time.
// Dirty bits and the pull cursor are its only cross-cycle state, and both
// mutate only at the commit points inside SyncNow.
type Orchestrator struct {
	mu stdsync.Mutex

	menuRepo  menus.Repository
	txRepo    transactions.Repository
	stateRepo syncstate.Repository
	mirror    *mirror.Applier
	client    remote.Client
	logger    logging.Logger
}

// NewOrchestrator wires the orchestrator to its repositories, the mirror
// applier and the remote client.
func NewOrchestrator(
	menuRepo menus.Repository,
	txRepo transactions.Repository,
	stateRepo syncstate.Repository,
	mirrorApplier *mirror.Applier,
	client remote.Client,
	logger logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		menuRepo:  menuRepo,
		txRepo:    txRepo,
		stateRepo: stateRepo,
		mirror:    mirrorApplier,
		client:    client,
		logger:    logger,
	}
}

// SyncNow runs one push-then-pull cycle for the company. A second call
// while one is in flight returns ErrSyncInProgress: interleaved pushes
// could mark the wrong id set synced.
//
// Commit points: dirty bits clear only after a confirmed push, and only
// for the ids captured before sending; the cursor advances only after the
// whole pulled batch applied. Any failure before a commit point leaves
// state exactly as it was, so the next call retries safely.
func (o *Orchestrator) SyncNow(ctx context.Context, companyID string) error {
	if !o.mu.TryLock() {
		return common.ErrSyncInProgress
	}
	defer o.mu.Unlock()

	log := o.logger.With("company_id", companyID)

	// Gather.
	dirtyMenus, err := o.menuRepo.SelectDirty(ctx)
	if err != nil {
		return fmt.Errorf("failed to gather dirty menus: %w", err)
	}
	dirtyTxs, err := o.txRepo.SelectDirty(ctx)
	if err != nil {
		return fmt.Errorf("failed to gather dirty transactions: %w", err)
	}

	// Capture the id set before the network round-trip. Rows that go dirty
	// while the push is in flight must not be marked synced.
	menuIDs := make([]string, 0, len(dirtyMenus))
	for _, m := range dirtyMenus {
		menuIDs = append(menuIDs, m.ID)
	}
	txIDs := make([]string, 0, len(dirtyTxs))
	for _, t := range dirtyTxs {
		txIDs = append(txIDs, t.ID)
	}

	// Push.
	if len(dirtyMenus) > 0 || len(dirtyTxs) > 0 {
		req := &syncapi.PushRequest{CompanyID: companyID}
		for _, m := range dirtyMenus {
			req.Changes.Menus = append(req.Changes.Menus, menuToWire(m))
		}
		for _, t := range dirtyTxs {
			req.Changes.Transactions = append(req.Changes.Transactions, transactionToWire(t))
		}

		resp, err := o.client.Push(ctx, req)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNotMemberOfCompany) {
				return err
			}
			return fmt.Errorf("%w: %w", common.ErrPushFailed, err)
		}

		// Mark synced: the server clock becomes the new baseline for
		// exactly the pushed ids.
		if err := o.menuRepo.MarkSynced(ctx, menuIDs, resp.ServerTime); err != nil {
			return fmt.Errorf("failed to mark menus synced: %w", err)
		}
		if err := o.txRepo.MarkSynced(ctx, txIDs, resp.ServerTime); err != nil {
			return fmt.Errorf("failed to mark transactions synced: %w", err)
		}
		log.Info(ctx, "push confirmed",
			"menus", len(menuIDs), "transactions", len(txIDs), "server_time", resp.ServerTime)
	}

	// Pull.
	since, err := o.stateRepo.GetCursor(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to read cursor: %w", err)
	}
	pull, err := o.client.Pull(ctx, companyID, since)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNotMemberOfCompany) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrPullFailed, err)
	}

	// Apply: the pulled row fully overwrites the local one. The server is
	// authoritative once confirmed; rows still dirty from edits made during
	// this cycle are skipped by the repositories.
	for _, c := range pull.Menus {
		if err := o.menuRepo.ApplyRemote(ctx, menuFromWire(c)); err != nil {
			return fmt.Errorf("failed to apply pulled menu %s: %w", c.ID, err)
		}
	}
	txBatch := make([]*models.Transaction, 0, len(pull.Transactions))
	for _, c := range pull.Transactions {
		t := transactionFromWire(c)
		if err := o.txRepo.ApplyRemote(ctx, t); err != nil {
			return fmt.Errorf("failed to apply pulled transaction %s: %w", c.ID, err)
		}
		txBatch = append(txBatch, t)
	}

	// Keep the legacy consumers correct. The whole projection is one local
	// transaction.
	if err := o.mirror.ApplyBatch(ctx, txBatch); err != nil {
		return fmt.Errorf("failed to mirror pulled batch: %w", err)
	}

	// Advance cursor only after the full batch landed.
	if err := o.stateRepo.SetCursor(ctx, companyID, pull.ServerTime); err != nil {
		return fmt.Errorf("failed to advance cursor: %w", err)
	}

	log.Info(ctx, "pull applied",
		"menus", len(pull.Menus), "transactions", len(pull.Transactions), "cursor", pull.ServerTime)
	return nil
}
