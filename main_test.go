package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSyncFlagsFromConfig(t *testing.T) {
	// Simulate config-file values; no flags were parsed, so none count as
	// changed and every value should land in its variable.
	viper.Set("top", 10)
	viper.Set("show_spaces", true)
	viper.Set("save_csv", true)
	viper.Set("gitignore", true)
	viper.Set("link_depth", 3)
	defer func() {
		viper.Set("top", 50)
		viper.Set("show_spaces", false)
		viper.Set("save_csv", false)
		viper.Set("gitignore", false)
		viper.Set("link_depth", 1)
		topN, showSpaces, saveCSV, useGitignore, linkDepth = 50, false, false, false, 1
	}()

	syncFlagsFromConfig()

	assert.Equal(t, 10, topN)
	assert.True(t, showSpaces)
	assert.True(t, saveCSV)
	assert.True(t, useGitignore)
	assert.Equal(t, 3, linkDepth)
}
