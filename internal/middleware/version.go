package middleware

import (
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated", "sunset"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware provides API versioning functionality
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

var versionPrefix = regexp.MustCompile(`^/(v[0-9]+)(/|$)`)

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if ver, exists := vm.supportedVersions[version]; exists {
				if ver.Status == "deprecated" && ver.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
					h.Set("Warning", `299 stagebook "This API version is deprecated and will be removed on `+ver.SunsetDate.Format("2006-01-02")+`"`)
				}
				if ver.Message != "" {
					h.Set("X-API-Message", ver.Message)
				}
			}
			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	return e.Group("/"+version, vm.VersionHeader(version))
}

// APIVersionResolver rejects unknown /vN prefixes and records the version on the context
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := vm.defaultVersion
			if m := versionPrefix.FindStringSubmatch(c.Request().URL.Path); m != nil {
				if ver, supported := vm.supportedVersions[m[1]]; !supported || ver.Status == "sunset" {
					return c.JSON(http.StatusNotFound, map[string]interface{}{
						"error":              "Unsupported API version",
						"supported_versions": vm.activeVersions(),
					})
				}
				version = m[1]
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

func (vm *VersionMiddleware) activeVersions() []string {
	var versions []string
	for version, info := range vm.supportedVersions {
		if info.Status == "active" || info.Status == "deprecated" {
			versions = append(versions, version)
		}
	}
	sort.Strings(versions)
	return versions
}

// AddVersion adds a new API version with its configuration
func (vm *VersionMiddleware) AddVersion(version, status, message string, sunsetDate *time.Time) {
	vm.supportedVersions[version] = APIVersion{
		Version:    version,
		Status:     status,
		SunsetDate: sunsetDate,
		Message:    message,
	}
}
