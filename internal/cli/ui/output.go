package ui

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	// Color definitions for terminal output
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	successColor.Printf("✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	errorColor.Printf("✗ %s\n", msg)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	warningColor.Printf("⚠ %s\n", msg)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	infoColor.Printf("ℹ %s\n", msg)
}

// PrintBold prints a bold message
func PrintBold(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	boldColor.Println(msg)
}

// PrintSuccessBox prints a success message in a box
func PrintSuccessBox(title, content string) {
	fmt.Println(Styles.SuccessBox.Render(boxContent(successColor.Sprint(title), content)))
}

// PrintErrorBox prints an error message in a box
func PrintErrorBox(title, content string) {
	fmt.Println(Styles.ErrorBox.Render(boxContent(errorColor.Sprint(title), content)))
}

// PrintWarningBox prints a warning in a box
func PrintWarningBox(title, content string) {
	fmt.Println(Styles.WarningBox.Render(boxContent(warningColor.Sprint(title), content)))
}

func boxContent(title, content string) string {
	return fmt.Sprintf("%s\n\n%s", title, content)
}
