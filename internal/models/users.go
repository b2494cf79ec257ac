package models

type User struct {
	ID                   int64   `json:"id"`
	Username             string  `json:"username"`
	Email                string  `json:"email"`
	FirstName            string  `json:"firstName,omitempty"`
	LastName             string  `json:"lastName,omitempty"`
	NativeLanguageID     int64   `json:"nativeLanguageId,omitempty"`
	NativeLanguageName   string  `json:"nativeLanguageName,omitempty"`
	RegistrationDate     string  `json:"registrationDate,omitempty"`
	LastLoginDate        string  `json:"lastLoginDate,omitempty"`
	IsActive             bool    `json:"isActive"`
	Role                 string  `json:"role"`
	TotalCards           int     `json:"totalCards"`
	LearnedCards         int     `json:"learnedCards"`
	LearningStreakDays   int     `json:"learningStreakDays"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

type UpdateUserRequest struct {
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	NativeLanguageID int64  `json:"nativeLanguageId,omitempty"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type Language struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName,omitempty"`
	IsEnabled  bool   `json:"isEnabled"`
}
