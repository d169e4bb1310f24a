package services

import (
	"habit-tracker/internal/database"
)

type ServiceManager struct {
	Habit        *HabitService
	Notification *NotificationService
	Analytics    *AnalyticsService
	Seed         *SeedService
	repository   *database.Repository
}

func NewServiceManager(db *database.Database) *ServiceManager {
	repo := database.NewRepository(db)

	return &ServiceManager{
		Habit:        NewHabitService(repo),
		Notification: nil,
		Analytics:    NewAnalyticsService(repo),
		Seed:         NewSeedService(repo),
		repository:   repo,
	}
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender, resolver ChatResolver) {
	sm.Notification = NewNotificationService(sm.repository, sender, resolver)
}
