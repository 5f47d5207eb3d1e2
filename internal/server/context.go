package server

import "context"

type contextKey string

const themeContextKey contextKey = "theme"

const defaultTheme = "dark"

// setThemeContext stores the visitor's theme in the request context
func setThemeContext(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeContextKey, theme)
}

// themeFromContext returns the visitor's theme, defaulting to dark
func themeFromContext(ctx context.Context) string {
	if theme, ok := ctx.Value(themeContextKey).(string); ok && theme != "" {
		return theme
	}
	return defaultTheme
}
