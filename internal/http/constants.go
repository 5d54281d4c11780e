package httpx

// Page identifiers used in templates and navigation.
const (
	PagePending        = "pending"
	PageLogin          = "login"
	PageRegister       = "register"
	PageHome           = "home"
	PageDashboard      = "dashboard"
	PageMyRequests     = "my-requests"
	PageMedicationForm = "medication-form"
)

// Routes served by the UI.
const (
	RouteRoot          = "/"
	RouteLogin         = "/login"
	RouteRegister      = "/register"
	RouteHome          = "/home"
	RouteDashboard     = "/dashboard"
	RouteMyRequests    = "/my-requests"
	RouteMedicationNew = "/medications/new"
)
