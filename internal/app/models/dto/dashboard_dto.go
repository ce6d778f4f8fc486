package dto

// StudentDashboard aggregates a student's own activity
type StudentDashboard struct {
	RegistrationsByStatus map[string]int64    `json:"registrationsByStatus"`
	PendingAssignments    []AssignmentResponse `json:"pendingAssignments"`
	UpcomingLiveClasses   []LiveClassResponse  `json:"upcomingLiveClasses"`
}

// TrainerDashboard aggregates a trainer's courses and workload
type TrainerDashboard struct {
	Courses             []CourseResponse    `json:"courses"`
	StudentCount        int64               `json:"studentCount"`
	UngradedSubmissions int64               `json:"ungradedSubmissions"`
	UpcomingLiveClasses []LiveClassResponse `json:"upcomingLiveClasses"`
}

// AdminDashboard aggregates platform-wide totals
type AdminDashboard struct {
	UsersByRole           map[string]int64       `json:"usersByRole"`
	CourseCount           int64                  `json:"courseCount"`
	RegistrationsByStatus map[string]int64       `json:"registrationsByStatus"`
	RevenueKobo           int64                  `json:"revenueKobo"`
	RecentRegistrations   []RegistrationResponse `json:"recentRegistrations"`
}
