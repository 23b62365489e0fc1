package user

import "math"

// Onboarding gating tasks, in order. A task is locked until every task
// before it is done: strict linear gating, no skipping ahead.
const (
	TaskProfileSetup = "profile_setup"
	TaskPhotoUpload  = "photo_upload"
	TaskKYForm       = "ky_form"
)

var OnboardingTasks = []string{TaskProfileSetup, TaskPhotoUpload, TaskKYForm}

type (
	TaskStatus struct {
		Key    string `json:"key"`
		Done   bool   `json:"done"`
		Locked bool   `json:"locked"`
	}

	OnboardingStatus struct {
		Tasks             []TaskStatus `json:"tasks"`
		CompletionPercent int          `json:"completion_percent"`
		Complete          bool         `json:"complete"`
	}
)

// CompletionPercent is done/total rounded to the nearest integer percent.
// An empty list reports 0: nothing to show.
func CompletionPercent(flags []bool) int {
	if len(flags) == 0 {
		return 0
	}
	var done int
	for _, f := range flags {
		if f {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(flags)) * 100))
}

// TaskLocked reports whether the task at index i is locked: true iff any
// lower-indexed task is incomplete.
func TaskLocked(flags []bool, i int) bool {
	for j := 0; j < i && j < len(flags); j++ {
		if !flags[j] {
			return true
		}
	}
	return false
}

func (u User) onboardingFlags() []bool {
	return []bool{u.ProfileSetupDone, u.PhotoUploaded, u.KYFormDone}
}

// Onboarding derives the user's onboarding status from their flags.
func (u User) Onboarding() OnboardingStatus {
	flags := u.onboardingFlags()
	status := OnboardingStatus{
		Tasks:             make([]TaskStatus, len(OnboardingTasks)),
		CompletionPercent: CompletionPercent(flags),
	}
	for i, key := range OnboardingTasks {
		status.Tasks[i] = TaskStatus{Key: key, Done: flags[i], Locked: TaskLocked(flags, i)}
	}
	status.Complete = status.CompletionPercent == 100
	return status
}
