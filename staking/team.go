package staking

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"stakevault/models"
	"stakevault/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamLevels is the number of sponsor levels override income reaches.
const TeamLevels = 3

// defaultOverrideRates are percent of the downline's credited daily ROI paid
// per sponsor level. Business configuration, overridable via env.
var defaultOverrideRates = [TeamLevels]float64{10, 3, 1}

// OverrideRatesFromEnv reads TEAM_OVERRIDE_L1..L3 (percent) falling back to
// the defaults.
func OverrideRatesFromEnv() [TeamLevels]float64 {
	rates := defaultOverrideRates
	for i := 0; i < TeamLevels; i++ {
		if s := os.Getenv(fmt.Sprintf("TEAM_OVERRIDE_L%d", i+1)); s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
				rates[i] = v
			}
		}
	}
	return rates
}

// TeamDistributor pays sponsor override income from the downline's ROI
// credited in the current period. Separate failure domain from the daily
// distributor; idempotent per sponsor per period via team_earnings rows.
type TeamDistributor struct {
	DB    *gorm.DB
	Now   func() time.Time
	Rates [TeamLevels]float64
}

func NewTeamDistributor(db *gorm.DB) *TeamDistributor {
	return &TeamDistributor{DB: db, Now: time.Now, Rates: OverrideRatesFromEnv()}
}

type TeamSweepSummary struct {
	Processed int `json:"processed"`
	Credited  int `json:"credited"`
	Failed    int `json:"failed"`
}

// Distribute computes and credits this period's overrides.
func (t *TeamDistributor) Distribute() TeamSweepSummary {
	now := t.Now()
	period := utils.PeriodDate(now)
	var summary TeamSweepSummary

	// The day's credited ROI per earner: entries the daily sweep marked in
	// this period, with the exact amount it credited.
	var entries []models.StakingEntry
	if err := t.DB.Where("last_credited_at >= ? AND last_credit_amount > 0", utils.PeriodStart(now)).
		Find(&entries).Error; err != nil {
		log.Printf("[team] loading credited entries failed: %v", err)
		summary.Failed++
		return summary
	}

	baseByUser := make(map[uint]float64)
	for _, e := range entries {
		baseByUser[e.UserID] += e.LastCreditAmount
	}
	if len(baseByUser) == 0 {
		return summary
	}

	overrides, err := t.accumulateOverrides(baseByUser)
	if err != nil {
		log.Printf("[team] sponsor walk failed: %v", err)
		summary.Failed++
		return summary
	}

	for sponsorID, o := range overrides {
		summary.Processed++
		amount := utils.Round2(o.amount)
		if amount <= 0 {
			continue
		}
		if err := t.credit(sponsorID, period, utils.Round2(o.base), amount); err != nil {
			if errors.Is(err, errAlreadyCredited) {
				continue
			}
			summary.Failed++
			log.Printf("[team] sponsor %d: %v", sponsorID, err)
			continue
		}
		summary.Credited++
	}
	return summary
}

type override struct {
	base   float64 // downline ROI the override was computed from
	amount float64
}

// accumulateOverrides walks each earner's sponsor chain up to TeamLevels and
// sums the per-sponsor override base and payout.
func (t *TeamDistributor) accumulateOverrides(baseByUser map[uint]float64) (map[uint]*override, error) {
	userIDs := make([]uint, 0, len(baseByUser))
	for id := range baseByUser {
		userIDs = append(userIDs, id)
	}

	// Resolve sponsor chains breadth-first, one query per level.
	overrides := make(map[uint]*override)
	current := userIDs
	carried := baseByUser
	for level := 0; level < TeamLevels && len(current) > 0; level++ {
		var users []models.User
		if err := t.DB.Select("id, reff_by").Where("id IN ?", current).Find(&users).Error; err != nil {
			return nil, err
		}
		next := make([]uint, 0)
		nextCarried := make(map[uint]float64)
		for _, u := range users {
			base, ok := carried[u.ID]
			if !ok || u.ReffBy == nil {
				continue
			}
			sponsor := *u.ReffBy
			o := overrides[sponsor]
			if o == nil {
				o = &override{}
				overrides[sponsor] = o
			}
			o.base += base
			o.amount += base * t.Rates[level] / 100
			nextCarried[sponsor] += base
			next = append(next, sponsor)
		}
		current = next
		carried = nextCarried
	}
	return overrides, nil
}

var errAlreadyCredited = errors.New("sponsor already credited this period")

// credit pays one sponsor exactly once per period: the unique team_earnings
// row and the wallet credit commit atomically.
func (t *TeamDistributor) credit(sponsorID uint, period string, base, amount float64) error {
	return t.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.TeamEarning
		err := tx.Where("sponsor_id = ? AND period_date = ?", sponsorID, period).First(&existing).Error
		if err == nil {
			return errAlreadyCredited
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var sponsor models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sponsor, sponsorID).Error; err != nil {
			return err
		}

		record := models.TeamEarning{
			SponsorID:  sponsorID,
			PeriodDate: period,
			BaseAmount: base,
			Amount:     amount,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		newBalance := utils.Round2(sponsor.Balance + amount)
		if err := tx.Model(&sponsor).Update("balance", newBalance).Error; err != nil {
			return err
		}

		msg := "Team override income"
		trx := models.Transaction{
			UserID:          sponsorID,
			Amount:          amount,
			OrderID:         utils.GenerateOrderID(sponsorID),
			TransactionFlow: models.TxFlowDebit,
			TransactionType: models.TxTypeTeam,
			Message:         &msg,
			Status:          "Success",
		}
		return tx.Create(&trx).Error
	})
}
