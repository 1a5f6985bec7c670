package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gridwerk/demogrid/internal/clock"
	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator"
	"github.com/gridwerk/demogrid/internal/observability"
	"github.com/gridwerk/demogrid/internal/persona"
	"github.com/gridwerk/demogrid/internal/runner"
	"github.com/gridwerk/demogrid/internal/sink"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		// Generation pipeline
		persona.Module,
		generator.Module,
		sink.Module,
		runner.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
