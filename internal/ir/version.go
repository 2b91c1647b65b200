package ir

// Version is the mudder tool version.
const Version = "0.1.0"
