package userctx

// Navigator is the router collaborator. It receives a path as a side effect of
// a successful context switch and of no-access redirects; it performs no
// authorization of its own.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// CompanyDashboardPath is the landing route for an active company scope.
func CompanyDashboardPath(companyID string) string {
	return "/company/" + companyID + "/dashboard"
}

// ClientRootPath is the landing route for an active client scope.
func ClientRootPath(clientID string) string {
	return "/client/" + clientID
}
