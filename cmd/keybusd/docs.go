package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate
// internal/apidocs.
//
// @title           keybusd API
// @version         1.0
// @description     Cache invalidation signal bus. Subscribers listen on a key path prefix and receive every invalidation published at or below it.
//
// @contact.name   keybus maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
