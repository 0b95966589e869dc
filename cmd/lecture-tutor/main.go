// Package main is the entry point for the Lecture Tutor service.
package main

import (
	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs/maxprocs"

	tutor "github.com/kart-io/lecture-tutor/internal/tutor"
)

func main() {
	// .env 文件可选，缺失时忽略
	_ = godotenv.Load()

	tutor.NewApp().Run()
}
