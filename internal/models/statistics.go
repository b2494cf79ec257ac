package models

type UserStatistics struct {
	ID                    int64   `json:"id"`
	UserID                int64   `json:"userId"`
	Username              string  `json:"username,omitempty"`
	TotalCards            int     `json:"totalCards"`
	LearnedCards          int     `json:"learnedCards"`
	TotalStudyTimeMinutes int     `json:"totalStudyTimeMinutes"`
	LearningStreakDays    int     `json:"learningStreakDays"`
	LastStudyDate         string  `json:"lastStudyDate,omitempty"`
	CompletionPercentage  float64 `json:"completionPercentage"`
	CardsToReview         int     `json:"cardsToReview"`
	NewCardsToLearn       int     `json:"newCardsToLearn"`
}

type DailyActivity struct {
	Date            string `json:"date"`
	CardsStudied    int    `json:"cardsStudied"`
	NewCardsLearned int    `json:"newCardsLearned"`
	MinutesSpent    int    `json:"minutesSpent"`
}

type ActivityStatistics struct {
	TotalDaysActive    int             `json:"totalDaysActive"`
	MaxStreakDays      int             `json:"maxStreakDays"`
	CurrentStreakDays  int             `json:"currentStreakDays"`
	AverageCardsPerDay int             `json:"averageCardsPerDay"`
	ActivityByWeekday  map[string]int  `json:"activityByWeekday,omitempty"`
	DailyActivity      []DailyActivity `json:"dailyActivity,omitempty"`
}

// StatisticsSummary — агрегат для экрана статистики за N дней.
type StatisticsSummary struct {
	UserStatistics UserStatistics     `json:"userStatistics"`
	Activity       ActivityStatistics `json:"activityStatistics"`
	StatusCounts   []StatusStatistics `json:"learningStatusStatistics,omitempty"`
	Sessions       StudySessionStats  `json:"studySessionStats"`
}
