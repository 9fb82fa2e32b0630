package staking

import (
	"log"
	"time"

	"stakevault/models"

	"gorm.io/gorm"
)

// Reconciler retires staking entries whose linked voucher's ROI window has
// elapsed: completed with end_date = the voucher boundary, not the sweep
// time. The daily distributor performs the same transition as part of its
// pass; this standalone sweep exists so a stalled distributor never leaves
// boundary-passed entries active forever. Safe to run repeatedly.
type Reconciler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{DB: db, Now: time.Now}
}

type ReconcileSummary struct {
	Processed int `json:"processed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

func (r *Reconciler) ReconcileVoucherBoundaries() ReconcileSummary {
	now := r.Now()
	var summary ReconcileSummary

	type expiredRow struct {
		EntryID    uint
		ROIEndDate time.Time
	}
	var rows []expiredRow
	err := r.DB.Model(&models.StakingEntry{}).
		Select("staking_entries.id AS entry_id, vouchers.roi_end_date AS roi_end_date").
		Joins("JOIN vouchers ON vouchers.applied_to_stake_id = staking_entries.id").
		Where("staking_entries.status IN ?", []string{models.EntryStatusActive, models.EntryStatusUnstaking}).
		Where("vouchers.status = ? AND vouchers.roi_end_date IS NOT NULL AND vouchers.roi_end_date <= ?", models.VoucherStatusUsed, now).
		Scan(&rows).Error
	if err != nil {
		log.Printf("[reconciler] scan failed: %v", err)
		summary.Failed++
		return summary
	}

	for _, row := range rows {
		summary.Processed++
		err := r.DB.Transaction(func(tx *gorm.DB) error {
			// Guard the status again inside the transaction: a concurrent
			// distributor pass may already have completed the entry.
			res := tx.Model(&models.StakingEntry{}).
				Where("id = ? AND status IN ?", row.EntryID, []string{models.EntryStatusActive, models.EntryStatusUnstaking}).
				Updates(map[string]interface{}{
					"status":   models.EntryStatusCompleted,
					"end_date": row.ROIEndDate,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				summary.Completed++
			}
			return nil
		})
		if err != nil {
			summary.Failed++
			log.Printf("[reconciler] entry %d: %v", row.EntryID, err)
		}
	}
	return summary
}
