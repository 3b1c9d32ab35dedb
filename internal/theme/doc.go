// Package theme provides CSS theming for the countdown and flash windows.
package theme
