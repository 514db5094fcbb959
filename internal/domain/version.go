package domain

// Version is the release reported by the health check and MCP initialization
const Version = "1.0.0"
