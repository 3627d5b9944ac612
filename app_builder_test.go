package lumen

import "testing"

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	commands.AddResources(NewMockResource1("from module"))
}

type MockModule2 struct {
	sawResource bool
}

func (m *MockModule2) Install(app *App, commands *Commands) {
	_, m.sawResource = Resource[MockResource1](app)
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}
}

func TestAppBuilder_Build_WithModules(t *testing.T) {
	builder := NewAppBuilder()
	module := &MockModule{}
	module2 := &MockModule2{}
	builder.UseModule(module, module2)

	app := builder.Build()

	if !module.installed {
		t.Errorf("Expected Install to be called on the module, but it was not")
	}
	if !module2.sawResource {
		t.Errorf("Expected modules to install in order so the second sees the first's resource")
	}
	if _, ok := Resource[MockResource1](app); !ok {
		t.Errorf("Expected the module's resource on the built app")
	}
}
