package api

// @title RouteScribe API
// @version 1.0
// @description Read API for route documentation generated by routescribe.
// @description Records are written by `routescribe generate` and served read-only.

// @contact.name RouteScribe
// @contact.url https://github.com/johnnynv/RouteScribe

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @schemes http https

// @tag.name Docs
// @tag.description Stored documentation records

// @tag.name Health
// @tag.description Health check and readiness endpoints

// @tag.name Status
// @tag.description Runtime status and record statistics

// @tag.name System
// @tag.description System information and version
