package services

import (
	"log"

	"habit-tracker/internal/database"
)

type SeedService struct {
	repository *database.Repository
}

func NewSeedService(repo *database.Repository) *SeedService {
	return &SeedService{
		repository: repo,
	}
}

// CreateDefaultData наполняет пустую базу стартовым набором
// общих мест и действий
func (ss *SeedService) CreateDefaultData() error {
	count, err := ss.repository.CountPlaces()
	if err != nil || count > 0 {
		return err
	}

	places := []string{"Дом", "Работа", "Улица"}
	for _, name := range places {
		if err := ss.repository.AddGlobalPlace(name); err != nil {
			return err
		}
	}

	actions := []string{"Отжимание", "Бег", "Съесть бургер"}
	for _, name := range actions {
		if err := ss.repository.AddGlobalAction(name); err != nil {
			return err
		}
	}

	log.Printf("✅ Добавлены стартовые места (%d) и действия (%d)", len(places), len(actions))
	return nil
}
