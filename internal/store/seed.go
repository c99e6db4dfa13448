package store

// SeedSampleData loads a handful of representative tickets, useful for demos
// and manual testing against an otherwise empty store.
func SeedSampleData(s *TicketStore) error {
	samples := []CreateInput{
		{
			Title:       "Fix login bug",
			Description: "Users cannot log in with special characters in password",
			Status:      "open",
			Priority:    "high",
			Reporter:    "alice@example.com",
			Tags:        []string{"bug", "authentication"},
		},
		{
			Title:       "Add dark mode",
			Description: "Implement dark mode theme for better user experience",
			Status:      "in_progress",
			Priority:    "medium",
			Assignee:    "bob@example.com",
			Reporter:    "carol@example.com",
			Tags:        []string{"feature", "ui"},
		},
		{
			Title: "Validator failure in CI/CD pipeline",
			Description: "The validator failed during the nightly build process. " +
				"Error occurred in the data validation step. Full logs available at: " +
				"https://jenkins.example.com/job/validator-pipeline/123/console. " +
				"Stack trace shows null pointer exception in ValidationEngine.validate() method. " +
				"This needs immediate attention as it's blocking the release pipeline.",
			Status:   "open",
			Priority: "critical",
			Reporter: "ci-system@example.com",
			Assignee: "dev-team@example.com",
			Tags:     []string{"validator", "ci-cd", "critical", "pipeline"},
		},
	}

	for _, sample := range samples {
		if _, err := s.Create(sample); err != nil {
			return err
		}
	}
	return nil
}
