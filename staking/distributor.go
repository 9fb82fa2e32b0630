package staking

import (
	"errors"
	"fmt"
	"log"
	"time"

	"stakevault/catalog"
	"stakevault/models"
	"stakevault/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Distributor credits one day of ROI to every on-stake entry per distribution
// period and retires entries that hit their cap or voucher boundary. Invoked
// by an external scheduled trigger; repeated invocations within one period
// are no-ops thanks to the per-entry last_credited_at marker.
type Distributor struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDistributor(db *gorm.DB) *Distributor {
	return &Distributor{DB: db, Now: time.Now}
}

// SweepSummary is what the scheduled caller gets back. Per-entry failures are
// isolated and counted; they never abort the sweep.
type SweepSummary struct {
	Processed int `json:"processed"`
	Credited  int `json:"credited"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// creditPlan is the pure per-entry decision for one sweep pass.
type creditPlan struct {
	Skip            bool
	Credit          float64
	Complete        bool
	EndDate         time.Time
	RefundPrincipal bool
	CountsTowardCap bool
}

// planCredit decides what this period's pass does to one entry. The voucher
// argument is the entry's linked voucher, or nil.
func planCredit(entry models.StakingEntry, voucher *models.Voucher, now time.Time) creditPlan {
	if !entry.OnStake() {
		return creditPlan{Skip: true}
	}
	if entry.LastCreditedAt != nil && utils.SamePeriod(*entry.LastCreditedAt, now) {
		return creditPlan{Skip: true}
	}

	countsTowardCap := true
	if voucher != nil && voucher.AppliedToStakeID != nil && *voucher.AppliedToStakeID == entry.ID {
		countsTowardCap = voucher.AffectsMaxCap
		// Voucher boundary governs: once past it, complete at the boundary
		// date, never at reconciliation time.
		if voucher.ROIEndDate != nil && !now.Before(*voucher.ROIEndDate) {
			return creditPlan{Complete: true, EndDate: *voucher.ROIEndDate, CountsTowardCap: countsTowardCap}
		}
	}

	unstaking := entry.Status == models.EntryStatusUnstaking
	remaining := entry.MaxEarning - entry.TotalEarned
	if remaining <= 0 {
		return creditPlan{Complete: true, EndDate: now, RefundPrincipal: unstaking, CountsTowardCap: countsTowardCap}
	}

	credit := utils.Round2(catalog.DailyEarning(entry.Amount, entry.DailyROI))
	if credit > remaining {
		credit = utils.Round2(remaining)
	}
	if credit <= 0 {
		return creditPlan{Complete: true, EndDate: now, RefundPrincipal: unstaking, CountsTowardCap: countsTowardCap}
	}

	atCap := entry.TotalEarned+credit >= entry.MaxEarning
	return creditPlan{
		Credit:          credit,
		Complete:        atCap || unstaking,
		EndDate:         now,
		RefundPrincipal: unstaking,
		CountsTowardCap: countsTowardCap,
	}
}

// DistributeDaily runs one sweep over the on-stake set.
func (d *Distributor) DistributeDaily() SweepSummary {
	now := d.Now()
	var summary SweepSummary

	var entries []models.StakingEntry
	if err := d.DB.Where("status IN ?", []string{models.EntryStatusActive, models.EntryStatusUnstaking}).
		Find(&entries).Error; err != nil {
		log.Printf("[distributor] loading on-stake entries failed: %v", err)
		summary.Failed++
		return summary
	}

	vouchers := d.vouchersFor(entries)

	for i := range entries {
		entry := entries[i]
		summary.Processed++

		plan := planCredit(entry, vouchers[entry.ID], now)
		if plan.Skip {
			continue
		}
		if err := d.apply(&entry, plan, now); err != nil {
			if errors.Is(err, errPeriodCredited) {
				continue
			}
			summary.Failed++
			log.Printf("[distributor] entry %d: %v", entry.ID, err)
			continue
		}
		if plan.Credit > 0 {
			summary.Credited++
		}
		if plan.Complete {
			summary.Completed++
		}
	}
	return summary
}

func (d *Distributor) vouchersFor(entries []models.StakingEntry) map[uint]*models.Voucher {
	ids := make([]uint, 0)
	for _, e := range entries {
		if e.VoucherID != nil {
			ids = append(ids, *e.VoucherID)
		}
	}
	out := make(map[uint]*models.Voucher)
	if len(ids) == 0 {
		return out
	}
	var vouchers []models.Voucher
	if err := d.DB.Where("id IN ?", ids).Find(&vouchers).Error; err != nil {
		log.Printf("[distributor] loading vouchers failed: %v", err)
		return out
	}
	byID := make(map[uint]*models.Voucher, len(vouchers))
	for i := range vouchers {
		byID[vouchers[i].ID] = &vouchers[i]
	}
	for _, e := range entries {
		if e.VoucherID != nil {
			if v, ok := byID[*e.VoucherID]; ok {
				out[e.ID] = v
			}
		}
	}
	return out
}

var errPeriodCredited = errors.New("entry already credited this period")

// apply executes one plan atomically: entry state, wallet balance and journal
// rows commit together or not at all. The entry update carries the period
// predicate, so when a concurrent sweep already credited this period the
// update matches no row and the whole transaction rolls back.
func (d *Distributor) apply(entry *models.StakingEntry, plan creditPlan, now time.Time) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		entryUpdates := map[string]interface{}{
			"last_credited_at":   now,
			"last_credit_amount": plan.Credit,
		}
		if plan.Credit > 0 {
			entryUpdates["total_earned"] = utils.Round2(entry.TotalEarned + plan.Credit)
		}
		if plan.Complete {
			entryUpdates["status"] = models.EntryStatusCompleted
			entryUpdates["end_date"] = plan.EndDate
		}

		res := tx.Model(&models.StakingEntry{}).
			Where("id = ? AND (last_credited_at IS NULL OR last_credited_at < ?)", entry.ID, utils.PeriodStart(now)).
			Updates(entryUpdates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errPeriodCredited
		}

		payout := plan.Credit
		if plan.RefundPrincipal && plan.Complete {
			payout += entry.Amount
		}

		if payout > 0 || plan.Credit > 0 {
			var user models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, entry.UserID).Error; err != nil {
				return err
			}
			if payout > 0 {
				newBalance := utils.Round2(user.Balance + payout)
				if err := tx.Model(&user).Update("balance", newBalance).Error; err != nil {
					return err
				}
			}
			if plan.Credit > 0 {
				msg := fmt.Sprintf("Daily ROI for %s", entry.PackageName)
				trx := models.Transaction{
					UserID:          entry.UserID,
					Amount:          plan.Credit,
					OrderID:         utils.GenerateOrderID(entry.UserID),
					TransactionFlow: models.TxFlowDebit,
					TransactionType: models.TxTypeROI,
					Message:         &msg,
					Status:          "Success",
				}
				if err := tx.Create(&trx).Error; err != nil {
					return err
				}
				if plan.CountsTowardCap {
					if err := tx.Model(&models.User{}).Where("id = ?", entry.UserID).
						Update("total_earned", gorm.Expr("total_earned + ?", plan.Credit)).Error; err != nil {
						return err
					}
				}
			}
			if plan.RefundPrincipal && plan.Complete {
				msg := fmt.Sprintf("Principal returned for %s", entry.PackageName)
				trx := models.Transaction{
					UserID:          entry.UserID,
					Amount:          entry.Amount,
					OrderID:         utils.GenerateOrderID(entry.UserID),
					TransactionFlow: models.TxFlowDebit,
					TransactionType: models.TxTypeUnstake,
					Message:         &msg,
					Status:          "Success",
				}
				if err := tx.Create(&trx).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}
