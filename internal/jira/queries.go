package jira

// DefaultQueries returns the stock JQL queries run when the configuration
// supplies none: open prioritized issues for the component, and fresh
// untriaged bugs older than six days.
func DefaultQueries() []string {
	return []string{
		`project = RHOCPPRIO AND status not in (Closed) AND component = Node`,

		`filter = "Node Components" AND (project = OCPBUGS OR project = OCPNODE AND issueType = Bug)` +
			` AND status = New` +
			` AND ((labels is EMPTY OR labels not in (triaged)) OR priority in (Undefined))` +
			` AND created < -6d ORDER BY priority DESC, key DESC`,
	}
}
