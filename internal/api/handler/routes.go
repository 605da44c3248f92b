package handler

import (
	"net/http"

	"github.com/vfg2006/crm-api/infrastructure/integrator/calls"
	"github.com/vfg2006/crm-api/internal/api/handler/router"
	"github.com/vfg2006/crm-api/internal/usecases/activity"
	"github.com/vfg2006/crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/crm-api/internal/usecases/company"
	"github.com/vfg2006/crm-api/internal/usecases/contact"
	"github.com/vfg2006/crm-api/internal/usecases/dashboarding"
	"github.com/vfg2006/crm-api/internal/usecases/deal"
	"github.com/vfg2006/crm-api/internal/usecases/profile"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:    "/v1/password-reset",
			Method:  http.MethodPost,
			Handler: PasswordReset(service),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
		{
			Path:    "/v1/me/password",
			Method:  http.MethodPut,
			Handler: ChangePassword(service),
		},
	}
}

func Companies(service company.CompanyService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/companies",
			Method:  http.MethodGet,
			Handler: ListCompanies(service),
		},
		{
			Path:    "/v1/companies/:id",
			Method:  http.MethodGet,
			Handler: GetCompany(service),
		},
		{
			Path:    "/v1/companies",
			Method:  http.MethodPost,
			Handler: CreateCompany(service),
		},
		{
			Path:    "/v1/companies/:id",
			Method:  http.MethodPut,
			Handler: UpdateCompany(service),
		},
		{
			Path:    "/v1/companies/:id",
			Method:  http.MethodDelete,
			Handler: DeleteCompany(service),
		},
	}
}

func Contacts(service contact.ContactService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/contacts",
			Method:  http.MethodGet,
			Handler: ListContacts(service),
		},
		{
			Path:    "/v1/contacts/:id",
			Method:  http.MethodGet,
			Handler: GetContact(service),
		},
		{
			Path:    "/v1/contacts",
			Method:  http.MethodPost,
			Handler: CreateContact(service),
		},
		{
			Path:    "/v1/contacts/:id",
			Method:  http.MethodPut,
			Handler: UpdateContact(service),
		},
		{
			Path:    "/v1/contacts/:id",
			Method:  http.MethodDelete,
			Handler: DeleteContact(service),
		},
	}
}

func Deals(service deal.DealService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/deals",
			Method:  http.MethodGet,
			Handler: ListDeals(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodGet,
			Handler: GetDeal(service),
		},
		{
			Path:    "/v1/deals",
			Method:  http.MethodPost,
			Handler: CreateDeal(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodPut,
			Handler: UpdateDeal(service),
		},
		{
			Path:    "/v1/deals/:id/stage",
			Method:  http.MethodPatch,
			Handler: MoveDealStage(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodDelete,
			Handler: DeleteDeal(service),
		},
	}
}

func Activities(service activity.ActivityService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/activities",
			Method:  http.MethodGet,
			Handler: ListActivities(service),
		},
	}
}

func Dashboard(service dashboarding.DashboardService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard/stats",
			Method:  http.MethodGet,
			Handler: GetDashboardStats(service),
		},
	}
}

func Profiles(service profile.ProfileService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/profiles",
			Method:  http.MethodGet,
			Handler: ListProfiles(service),
		},
		{
			Path:    "/v1/profiles/:id",
			Method:  http.MethodGet,
			Handler: GetProfile(service),
		},
		{
			Path:    "/v1/me/profile",
			Method:  http.MethodPut,
			Handler: UpdateProfile(service),
		},
	}
}

func Calls(service calls.CallsIntegrator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/calls",
			Method:  http.MethodPost,
			Handler: InitiateCall(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
