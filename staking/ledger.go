package staking

import (
	"errors"
	"fmt"
	"log"
	"time"

	"stakevault/catalog"
	"stakevault/models"
	"stakevault/promo"
	"stakevault/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAmountNotPositive   = errors.New("stake amount must be positive")
	ErrAmountNotWhole      = errors.New("stake amount must be a whole number")
	ErrNoMatchingPackage   = errors.New("no package matches this amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrEntryNotFound       = errors.New("staking entry not found")
	ErrInvalidTransition   = errors.New("entry is not in a state that allows this")
)

// Ledger owns staking entry creation and the user-triggered part of the state
// machine. Everything after creation is mutated only by the scheduled sweeps.
type Ledger struct {
	DB    *gorm.DB
	Now   func() time.Time
	Promo *promo.Engine
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{DB: db, Now: time.Now, Promo: promo.NewEngine(db)}
}

// ValidateStakeAmount applies the creation rules: positive, whole-number,
// exact tier match. Pure; returns the matched package.
func ValidateStakeAmount(amount float64) (*catalog.Package, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if !catalog.IsWhole(amount) {
		return nil, ErrAmountNotWhole
	}
	pkg := catalog.FindPackageForAmount(amount)
	if pkg == nil {
		return nil, ErrNoMatchingPackage
	}
	return pkg, nil
}

// CreateStake debits the wallet and opens an entry with the package terms
// snapshotted, in one transaction. The purchase promotion (if any) is granted
// in the same transaction; sponsor milestones are evaluated afterwards,
// best-effort.
func (l *Ledger) CreateStake(userID uint, amount float64) (*models.StakingEntry, error) {
	pkg, err := ValidateStakeAmount(amount)
	if err != nil {
		return nil, err
	}

	now := l.Now()
	entry := models.StakingEntry{
		UserID:      userID,
		PackageID:   &pkg.ID,
		PackageName: pkg.Name,
		Amount:      amount,
		DailyROI:    pkg.DailyROI,
		Cap:         pkg.Cap,
		MaxEarning:  catalog.MaxEarning(amount, pkg.Cap),
		OrderID:     utils.GenerateOrderID(userID),
		Status:      models.EntryStatusActive,
		StartDate:   now,
	}

	var sponsorID *uint
	if err := l.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		if user.Balance < amount {
			return ErrInsufficientBalance
		}
		sponsorID = user.ReffBy

		newBalance := utils.Round2(user.Balance - amount)
		if err := tx.Model(&user).Update("balance", newBalance).Error; err != nil {
			return err
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Stake %s", pkg.Name)
		trx := models.Transaction{
			UserID:          userID,
			Amount:          amount,
			OrderID:         entry.OrderID,
			TransactionFlow: models.TxFlowCredit,
			TransactionType: models.TxTypeStake,
			Message:         &msg,
			Status:          "Success",
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_staked", gorm.Expr("total_staked + ?", amount)).Error; err != nil {
			return err
		}

		if l.Promo != nil {
			if _, err := l.Promo.GrantPurchaseReward(tx, &user, pkg.ID); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Team milestones for the buyer's sponsor. A failure here never unwinds
	// the stake; the next downline event re-evaluates.
	if l.Promo != nil && sponsorID != nil {
		if _, err := l.Promo.EvaluateTeamMilestones(*sponsorID); err != nil {
			log.Printf("[ledger] milestone evaluation for sponsor %d failed: %v", *sponsorID, err)
		}
	}

	return &entry, nil
}

// RequestUnstake moves an active entry to unstaking. The entry keeps earning
// until the next daily sweep finalizes it and refunds the principal.
func (l *Ledger) RequestUnstake(userID, entryID uint) (*models.StakingEntry, error) {
	var entry models.StakingEntry
	err := l.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		if entry.Status != models.EntryStatusActive {
			return ErrInvalidTransition
		}
		if err := tx.Model(&entry).Update("status", models.EntryStatusUnstaking).Error; err != nil {
			return err
		}
		entry.Status = models.EntryStatusUnstaking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
