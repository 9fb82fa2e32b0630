package promo

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

var (
	ErrVoucherNotFound  = errors.New("voucher not found")
	ErrVoucherNotActive = errors.New("voucher is not redeemable")
	ErrVoucherConfig    = errors.New("voucher has an invalid package reference")
)

// Engine turns purchase events and team milestones into voucher grants, and
// redeems granted vouchers. Grants are idempotent: purchase rewards ride in
// the purchase transaction, milestone rewards are guarded by claim rows.
type Engine struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

// GrantPurchaseReward issues the package-purchase voucher for a buyer, inside
// the caller's transaction so the stake and its reward commit atomically.
// Returns (nil, nil) when the package carries no promotion or the buyer's
// promo window has closed.
func (e *Engine) GrantPurchaseReward(tx *gorm.DB, buyer *models.User, packageID uint) (*models.Voucher, error) {
	if !InPromoWindow(buyer.CreatedAt, e.Now()) {
		return nil, nil
	}
	reward := PurchaseRewardFor(packageID)
	if reward == nil {
		return nil, nil
	}
	v, err := e.newVoucher(buyer.ID, *reward, "purchase_reward")
	if err != nil {
		return nil, err
	}
	if err := tx.Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// EvaluateTeamMilestones checks every configured milestone for the sponsor
// and grants each unclaimed, satisfied one exactly once. Safe to call on
// every downline event; already-claimed milestones are skipped.
func (e *Engine) EvaluateTeamMilestones(sponsorID uint) (int, error) {
	var sponsor models.User
	if err := e.DB.First(&sponsor, sponsorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !InPromoWindow(sponsor.CreatedAt, e.Now()) {
		return 0, nil
	}

	invitees, err := e.inviteeSummaries(sponsorID)
	if err != nil {
		return 0, err
	}

	granted := 0
	for _, m := range Milestones() {
		if !m.Satisfied(invitees) {
			continue
		}
		var existing models.MilestoneClaim
		err := e.DB.Where("sponsor_id = ? AND milestone_key = ?", sponsorID, m.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[promo] milestone %s sponsor %d: claim lookup failed: %v", m.Key, sponsorID, err)
			continue
		}

		if err := e.DB.Transaction(func(tx *gorm.DB) error {
			v, err := e.newVoucher(sponsorID, m.Reward, m.Key)
			if err != nil {
				return err
			}
			if err := tx.Create(v).Error; err != nil {
				return err
			}
			// The unique (sponsor, milestone) index rejects concurrent grants.
			claim := models.MilestoneClaim{SponsorID: sponsorID, MilestoneKey: m.Key, VoucherID: v.ID}
			return tx.Create(&claim).Error
		}); err != nil {
			log.Printf("[promo] milestone %s sponsor %d: grant failed: %v", m.Key, sponsorID, err)
			continue
		}
		granted++
	}
	return granted, nil
}

func (e *Engine) newVoucher(userID uint, r Reward, source string) (*models.Voucher, error) {
	code, err := utils.GenerateVoucherCode(12)
	if err != nil {
		return nil, err
	}
	return &models.Voucher{
		UserID:          userID,
		Code:            code,
		Type:            r.Type,
		Status:          models.VoucherStatusActive,
		Value:           r.Value,
		PackageID:       r.PackageID,
		PackageName:     r.PackageName,
		ROIValidityDays: r.ROIDays,
		AffectsMaxCap:   r.AffectsMaxCap,
		Source:          source,
	}, nil
}

// inviteeSummaries builds the per-invitee view the milestone predicates run
// over, ordered by join time.
func (e *Engine) inviteeSummaries(sponsorID uint) ([]InviteeSummary, error) {
	var edges []models.InvitedMember
	if err := e.DB.Where("sponsor_id = ?", sponsorID).Order("created_at ASC, id ASC").Find(&edges).Error; err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.UserID)
	}
	var entries []models.StakingEntry
	if err := e.DB.Where("user_id IN ? AND status <> ?", ids, models.EntryStatusCancelled).Find(&entries).Error; err != nil {
		return nil, err
	}

	entryTier := catalog.FindPackageByID(catalog.EntryTierID)
	byUser := make(map[uint]*InviteeSummary, len(edges))
	summaries := make([]InviteeSummary, len(edges))
	for i, edge := range edges {
		summaries[i] = InviteeSummary{UserID: edge.UserID, JoinedAt: edge.CreatedAt}
		byUser[edge.UserID] = &summaries[i]
	}
	for _, entry := range entries {
		s, ok := byUser[entry.UserID]
		if !ok {
			continue
		}
		if entry.PackageID != nil && *entry.PackageID >= catalog.EntryTierID && entry.Amount >= entryTier.Amount {
			s.Activations++
		}
		if entry.OnStake() && entry.PackageID != nil {
			s.PackageIDs = append(s.PackageIDs, *entry.PackageID)
		}
	}
	return summaries, nil
}

// RedeemResult describes what a redemption produced: a wallet credit for
// withdraw vouchers, a linked staking entry for package vouchers.
type RedeemResult struct {
	Voucher  *models.Voucher      `json:"voucher"`
	Entry    *models.StakingEntry `json:"entry,omitempty"`
	Credited float64              `json:"credited,omitempty"`
}

// Redeem consumes a voucher exactly once. The voucher row is locked for the
// whole transaction so a code can never be spent twice.
func (e *Engine) Redeem(userID uint, code string) (*RedeemResult, error) {
	now := e.Now()
	result := &RedeemResult{}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var v models.Voucher
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND user_id = ?", code, userID).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoucherNotFound
		}
		if err != nil {
			return err
		}
		if v.Status != models.VoucherStatusActive {
			return ErrVoucherNotActive
		}

		switch v.Type {
		case models.VoucherTypeWithdraw:
			var user models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
				return err
			}
			newBalance := utils.Round2(user.Balance + v.Value)
			if err := tx.Model(&user).Update("balance", newBalance).Error; err != nil {
				return err
			}
			msg := fmt.Sprintf("Voucher %s redeemed to wallet", v.Code)
			trx := models.Transaction{
				UserID:          userID,
				Amount:          v.Value,
				OrderID:         utils.GenerateOrderID(userID),
				TransactionFlow: models.TxFlowDebit,
				TransactionType: models.TxTypeVoucher,
				Message:         &msg,
				Status:          "Success",
			}
			if err := tx.Create(&trx).Error; err != nil {
				return err
			}
			result.Credited = v.Value

		case models.VoucherTypePackage:
			if v.PackageID == nil {
				return ErrVoucherConfig
			}
			pkg := catalog.FindPackageByID(*v.PackageID)
			if pkg == nil {
				return ErrVoucherConfig
			}
			entry := models.StakingEntry{
				UserID:      userID,
				PackageID:   v.PackageID,
				PackageName: v.PackageName,
				Amount:      v.Value,
				DailyROI:    pkg.DailyROI,
				Cap:         pkg.Cap,
				MaxEarning:  catalog.MaxEarning(v.Value, pkg.Cap),
				VoucherID:   &v.ID,
				OrderID:     utils.GenerateOrderID(userID),
				Status:      models.EntryStatusActive,
				StartDate:   now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			result.Entry = &entry

		default:
			return ErrVoucherConfig
		}

		// Consume: used_at, applied stake and roi_end_date are written once
		// and never change afterwards.
		roiEnd := now.AddDate(0, 0, v.ROIValidityDays)
		updates := map[string]interface{}{
			"status":  models.VoucherStatusUsed,
			"used_at": now,
		}
		if result.Entry != nil {
			updates["applied_to_stake_id"] = result.Entry.ID
			updates["roi_end_date"] = roiEnd
			v.AppliedToStakeID = &result.Entry.ID
			v.ROIEndDate = &roiEnd
		}
		if err := tx.Model(&v).Updates(updates).Error; err != nil {
			return err
		}
		v.Status = models.VoucherStatusUsed
		v.UsedAt = &now
		result.Voucher = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExpireLapsed retires unredeemed vouchers older than the redeem-by window.
// Idempotent: already-expired vouchers are not touched again.
func (e *Engine) ExpireLapsed() (int, error) {
	cutoff := e.Now().AddDate(0, 0, -RedeemByDays)
	res := e.DB.Model(&models.Voucher{}).
		Where("status = ? AND created_at < ?", models.VoucherStatusActive, cutoff).
		Update("status", models.VoucherStatusExpired)
	return int(res.RowsAffected), res.Error
}
