package leaderboard

import (
	"sort"
	"time"

	"stakevault/catalog"
	"stakevault/models"
	"stakevault/utils"

	"gorm.io/gorm"
)

// Weekly invite ranking. The window resets every Sunday 18:00 in the UTC+5
// business zone and is recomputed on every query, never persisted. An invitee
// counts as activated when they hold at least one non-cancelled entry at or
// above the entry tier, created inside the window.

// Activation is one raw joined row from the store: a qualifying entry of one
// invitee under one sponsor. The same invitee may appear several times; the
// reducer counts each invitee once, at their earliest qualifying entry.
type Activation struct {
	SponsorID   uint
	InviteeID   uint
	ActivatedAt time.Time
}

type Standing struct {
	SponsorID         uint      `json:"sponsor_id"`
	ActivatedInvites  int       `json:"activated_invites"`
	FirstActivationAt time.Time `json:"first_activation_at"`
}

type Me struct {
	Rank             *int `json:"rank"`
	ActivatedInvites int  `json:"activated_invites"`
}

type Board struct {
	WindowStart time.Time  `json:"window_start"`
	Top         []Standing `json:"top"`
	Me          Me         `json:"me"`
}

// WindowStart returns the most recent Sunday 18:00 (UTC+5) at or before now.
func WindowStart(now time.Time) time.Time {
	lt := now.In(utils.BusinessZone)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 18, 0, 0, 0, utils.BusinessZone)
	start = start.AddDate(0, 0, -int(lt.Weekday()))
	if start.After(lt) {
		start = start.AddDate(0, 0, -7)
	}
	return start
}

// Reduce groups raw activation rows into sponsor standings, ordered by
// activation count descending, then earliest first activation, then sponsor
// id. The ordering is total, so ranks follow directly from positions.
func Reduce(rows []Activation) []Standing {
	type inviteeKey struct {
		sponsor uint
		invitee uint
	}
	earliest := make(map[inviteeKey]time.Time)
	for _, r := range rows {
		k := inviteeKey{r.SponsorID, r.InviteeID}
		if at, ok := earliest[k]; !ok || r.ActivatedAt.Before(at) {
			earliest[k] = r.ActivatedAt
		}
	}

	bySponsor := make(map[uint]*Standing)
	for k, at := range earliest {
		s := bySponsor[k.sponsor]
		if s == nil {
			s = &Standing{SponsorID: k.sponsor, FirstActivationAt: at}
			bySponsor[k.sponsor] = s
		}
		s.ActivatedInvites++
		if at.Before(s.FirstActivationAt) {
			s.FirstActivationAt = at
		}
	}

	standings := make([]Standing, 0, len(bySponsor))
	for _, s := range bySponsor {
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.ActivatedInvites != b.ActivatedInvites {
			return a.ActivatedInvites > b.ActivatedInvites
		}
		if !a.FirstActivationAt.Equal(b.FirstActivationAt) {
			return a.FirstActivationAt.Before(b.FirstActivationAt)
		}
		return a.SponsorID < b.SponsorID
	})
	return standings
}

// RankOf returns the 1-based rank of sponsorID within standings, or nil when
// the sponsor has no in-window activations.
func RankOf(standings []Standing, sponsorID uint) (*int, int) {
	for i, s := range standings {
		if s.SponsorID == sponsorID {
			rank := i + 1
			return &rank, s.ActivatedInvites
		}
	}
	return nil, 0
}

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

// InviteLeaderboard builds the current weekly board and the caller's own
// position. Zero or negative parameters fall back to the defaults: top 10,
// entry tier thresholds.
func (s *Service) InviteLeaderboard(userID uint, limit int, minStake float64, minPackageID uint) (*Board, error) {
	if limit <= 0 {
		limit = 10
	}
	if minPackageID == 0 {
		minPackageID = catalog.EntryTierID
	}
	if minStake <= 0 {
		if pkg := catalog.FindPackageByID(catalog.EntryTierID); pkg != nil {
			minStake = pkg.Amount
		}
	}

	now := s.Now()
	windowStart := WindowStart(now)

	var rows []Activation
	err := s.DB.Model(&models.InvitedMember{}).
		Select("invited_members.sponsor_id AS sponsor_id, invited_members.user_id AS invitee_id, staking_entries.created_at AS activated_at").
		Joins("JOIN staking_entries ON staking_entries.user_id = invited_members.user_id").
		Where("staking_entries.status <> ?", models.EntryStatusCancelled).
		Where("staking_entries.package_id >= ? AND staking_entries.amount >= ?", minPackageID, minStake).
		Where("staking_entries.created_at >= ? AND staking_entries.created_at < ?", windowStart, now).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	standings := Reduce(rows)
	rank, mine := RankOf(standings, userID)

	top := standings
	if len(top) > limit {
		top = top[:limit]
	}
	return &Board{
		WindowStart: windowStart,
		Top:         top,
		Me:          Me{Rank: rank, ActivatedInvites: mine},
	}, nil
}
