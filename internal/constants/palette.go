package constants

// ChartColors cycles through the identity bars on the dashboard.
var ChartColors = []string{"#6366f1", "#10b981", "#f59e0b", "#ec4899", "#8b5cf6"}
