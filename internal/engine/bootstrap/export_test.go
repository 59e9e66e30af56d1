package bootstrap

// ExecutablePath exposes executablePath for testing.
var ExecutablePath = executablePath
