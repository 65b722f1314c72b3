package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/Vamsee295/telegram-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterEntry is one known participant eligible for mentions and tallies.
type RosterEntry struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
}

// DefaultSeed lists the study group members known before auto-registration
// picked anyone up. DB rows override these names on conflict.
var DefaultSeed = []RosterEntry{
	{1387393147, "Vamsee"},
	{8095569186, "Umesh"},
	{6931175630, "Chetan"},
	{6544711761, "Yashwanth"},
	{5477604530, "Karthik"},
	{6643208192, "Sanjith"},
	{5801384729, "Raghunandan"},
	{103419413, "Pavan"},
}

type RosterService struct {
	db   *gorm.DB
	seed []RosterEntry
}

func NewRosterService(db *gorm.DB, seed []RosterEntry) *RosterService {
	return &RosterService{db: db, seed: seed}
}

// ResolveAll merges the seed list with the members table. Store entries win
// on name conflicts since they reflect more recent sightings. Order is seed
// order first, then store-only members by ascending user id. A store read
// failure degrades to the seed list alone.
func (s *RosterService) ResolveAll() []RosterEntry {
	names := make(map[int64]string, len(s.seed))
	order := make([]int64, 0, len(s.seed))

	for _, m := range s.seed {
		names[m.UserID] = m.FirstName
		order = append(order, m.UserID)
	}

	var rows []models.Member
	if err := s.db.Order("user_id").Find(&rows).Error; err != nil {
		log.Printf("[Roster] read members: %v", err)
	} else {
		for _, m := range rows {
			if _, known := names[m.UserID]; !known {
				order = append(order, m.UserID)
			}
			names[m.UserID] = m.FirstName
		}
	}

	entries := make([]RosterEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, RosterEntry{UserID: id, FirstName: names[id]})
	}
	return entries
}

func (s *RosterService) Count() int {
	return len(s.ResolveAll())
}

// AutoRegister upserts a member row, refreshing the name if the user
// changed it since the last sighting.
func (s *RosterService) AutoRegister(userID int64, firstName string) error {
	if firstName == "" {
		firstName = "User"
	}
	member := models.Member{UserID: userID, FirstName: firstName}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name"}),
	}).Create(&member).Error
}

// MentionList renders entries as Telegram Markdown mentions.
func MentionList(entries []RosterEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s](tg://user?id=%d) ", e.FirstName, e.UserID)
	}
	return b.String()
}
