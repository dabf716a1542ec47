package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no environment overrides", t, func() {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		So(err, ShouldBeNil)
		So(cfg.Host, ShouldEqual, "localhost")
		So(cfg.Port, ShouldEqual, 8080)
		So(cfg.Debug, ShouldBeFalse)
		So(cfg.NWorkers, ShouldEqual, runtime.NumCPU())
		So(cfg.Addr(), ShouldEqual, "localhost:8080")
	})

	Convey("Given environment variables", t, func() {
		t.Setenv("TREASUREHUNT_HOST", "0.0.0.0")
		t.Setenv("TREASUREHUNT_PORT", "9000")
		t.Setenv("TREASUREHUNT_DEBUG", "true")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		So(err, ShouldBeNil)
		So(cfg.Addr(), ShouldEqual, "0.0.0.0:9000")
		So(cfg.Debug, ShouldBeTrue)
	})

	Convey("Given a .env file", t, func() {
		path := filepath.Join(t.TempDir(), "test.env")
		So(os.WriteFile(path, []byte("TREASUREHUNT_NWORKERS=3\n"), 0o600), ShouldBeNil)
		// godotenv never overrides a set variable; register cleanup for the one it sets.
		t.Setenv("TREASUREHUNT_NWORKERS", "")
		So(os.Unsetenv("TREASUREHUNT_NWORKERS"), ShouldBeNil)

		cfg, err := Load(path)
		So(err, ShouldBeNil)
		So(cfg.NWorkers, ShouldEqual, 3)
	})

	Convey("Given an invalid worker count", t, func() {
		t.Setenv("TREASUREHUNT_NWORKERS", "0")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		So(err, ShouldNotBeNil)
	})
}
