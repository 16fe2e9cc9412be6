// Package guard decides navigation redirects from the authentication state.
package guard

// Routes the guard knows about.
const (
	RouteHome     = "/"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLibrary  = "/myLibrery"
)

var (
	guestOnlyRoutes = map[string]bool{RouteLogin: true, RouteRegister: true}
	protectedRoutes = map[string]bool{RouteLibrary: true}
)

// Redirect returns the route to send the visitor to instead of path, if any.
// Signed-in users skip the guest pages; anonymous users are sent to sign in
// before reaching the library.
func Redirect(authenticated bool, path string) (string, bool) {
	switch {
	case authenticated && IsGuestOnly(path):
		return RouteHome, true
	case !authenticated && IsProtected(path):
		return RouteLogin, true
	}
	return "", false
}

// IsProtected reports whether path requires a signed-in user.
func IsProtected(path string) bool {
	return protectedRoutes[path]
}

// IsGuestOnly reports whether path is only for anonymous visitors.
func IsGuestOnly(path string) bool {
	return guestOnlyRoutes[path]
}
