package services

import (
	"log"
	"sort"

	"mission-board-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RankingEntry is one leaderboard row, derived on demand from the mission
// set; it has no stored lifecycle.
type RankingEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	Role           string `json:"role"`
	CompletedCount int64  `json:"completed_count"`
}

// RankingFilterAll disables the team filter ("Todos" button on the
// dashboard).
const RankingFilterAll = "Todos"

// Rank orders participants by completed-mission count descending. Equal
// counts tie-break by ascending participant ID, so the order is fully
// deterministic regardless of input order. Empty or "Todos" filters match
// everything.
func Rank(entries []RankingEntry, teamFilter, roleFilter string) []RankingEntry {
	ranked := make([]RankingEntry, 0, len(entries))
	for _, e := range entries {
		if teamFilter != "" && teamFilter != RankingFilterAll && e.Team != teamFilter {
			continue
		}
		if roleFilter != "" && e.Role != roleFilter {
			continue
		}
		ranked = append(ranked, e)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompletedCount != ranked[j].CompletedCount {
			return ranked[i].CompletedCount > ranked[j].CompletedCount
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

// GetRanking returns the leaderboard. Completed counts come from missions
// in the Delivered or Finalized state grouped by assigned leader; filters:
// ?team= (or "Todos") and ?role= (Leader/Coordinator).
func (s *RankingService) GetRanking(c *fiber.Ctx) error {
	var profiles []models.UserProfile
	if err := s.DB.Order("full_name ASC").Find(&profiles).Error; err != nil {
		log.Printf("DB Error fetching profiles for ranking: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch ranking"})
	}

	type countRow struct {
		AssignedLeaderID string
		Count            int64
	}
	var counts []countRow
	if err := s.DB.Model(&models.Mission{}).
		Select("assigned_leader_id, COUNT(*) as count").
		Where("status IN ?", []models.MissionStatus{models.MissionStatusDelivered, models.MissionStatusFinalized}).
		Group("assigned_leader_id").
		Find(&counts).Error; err != nil {
		log.Printf("DB Error counting completed missions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch ranking"})
	}

	completed := make(map[string]int64, len(counts))
	for _, row := range counts {
		completed[row.AssignedLeaderID] = row.Count
	}

	entries := make([]RankingEntry, 0, len(profiles))
	for _, p := range profiles {
		if p.ProfileType == models.ProfileTypeAdmin {
			continue
		}
		entries = append(entries, RankingEntry{
			ID:             p.ID,
			Name:           p.FullName,
			Team:           p.Team,
			Role:           string(p.ProfileType),
			CompletedCount: completed[p.ID],
		})
	}

	return c.JSON(Rank(entries, c.Query("team"), c.Query("role")))
}
