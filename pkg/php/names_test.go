package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameScope_ResolveName(t *testing.T) {
	scope := newNameScope(`App\Http`)
	scope.importAll(&UseStatement{Names: []ImportedName{
		{Name: `Other\Package\ClassB`},
		{Name: `Doctrine\ORM\Mapping`, Alias: "ORM"},
		{Name: `Other\Package\helper`, Kind: UseFunction},
	}})

	tests := []struct {
		written string
		want    string
	}{
		{`\Foo\Bar`, `Foo\Bar`},
		{`ClassB`, `Other\Package\ClassB`},
		{`classb`, `Other\Package\ClassB`},
		{`ORM\Entity`, `Doctrine\ORM\Mapping\Entity`},
		{`orm\Entity`, `Doctrine\ORM\Mapping\Entity`},
		{`Controller`, `App\Http\Controller`},
		{`Sub\Thing`, `App\Http\Sub\Thing`},
		{`namespace\Local`, `App\Http\Local`},
		{`helper`, `App\Http\helper`},
		{`self`, ""},
		{`Static`, ""},
		{`int`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scope.resolveName(tt.written), tt.written)
	}
}

func TestNameScope_GlobalNamespace(t *testing.T) {
	scope := newNameScope("")
	assert.Equal(t, `Other\Package\ClassB`, scope.resolveName(`Other\Package\ClassB`))
	assert.Equal(t, `Exception`, scope.resolveName(`Exception`))
}
