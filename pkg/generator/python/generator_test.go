package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/schema-gen/internal/fixture"
	"github.com/blimu-dev/schema-gen/pkg/engine"
	"github.com/blimu-dev/schema-gen/pkg/ir"
)

func TestUniversity(t *testing.T) {
	out, err := engine.Generate(fixture.University(), NewPythonGenerator(), engine.Options{})
	require.NoError(t, err)

	tests := []struct {
		file string
		want string
	}{
		{"location.py", `from typing import Optional
from pydantic import BaseModel, Field, RootModel


class Location(BaseModel):
    """
    Location of the person
    """
    lat: Optional[float] = Field(default=None, alias="lat")
    long: Optional[float] = Field(default=None, alias="long")
`},
		{"human.py", `import datetime
from typing import List, Optional
from pydantic import BaseModel, Field, RootModel
from .location import Location


class Human(BaseModel):
    """
    A simple human
    """
    first_name: str = Field(alias="firstName")
    birth: Optional[datetime.date] = Field(default=None, alias="birth")
    location: Optional[Location] = Field(default=None, alias="location")
    tags: Optional[List[str]] = Field(default=None, alias="tags")
`},
		{"student.py", `from typing import List, Optional
from pydantic import BaseModel, Field, RootModel
from .human import Human


class Student(Human):
    matricle_number: Optional[str] = Field(default=None, alias="matricleNumber")
`},
		{"student_map.py", `from typing import Dict, List, Optional
from pydantic import BaseModel, Field, RootModel
from .student import Student


class StudentMap(RootModel[Dict[str, Student]]):
    pass
`},
		{"identifier.py", `from typing import Optional, Union
from pydantic import BaseModel, Field, RootModel


Identifier = Union[str, int]
`},
		{"collection.py", `from typing import Generic, List, Optional, TypeVar
from pydantic import BaseModel, Field, RootModel


T = TypeVar("T")


class Collection(BaseModel, Generic[T]):
    total_results: Optional[int] = Field(default=None, alias="totalResults")
    entries: Optional[List[T]] = Field(default=None, alias="entries")
`},
		{"student_collection.py", `from typing import Generic, List, Optional, TypeVar
from pydantic import BaseModel, Field, RootModel
from .collection import Collection
from .student import Student


class StudentCollection(Collection[Student]):
    pass
`},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := out.Get(tt.file)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertyAttributes(t *testing.T) {
	out, err := engine.Generate(fixture.Described(), NewPythonGenerator(), engine.Options{})
	require.NoError(t, err)

	entry, ok := out.Get("entry.py")
	require.True(t, ok)
	assert.Equal(t, `import datetime
from typing import Optional
from pydantic import BaseModel, Field, RootModel


class Entry(BaseModel):
    id: str = Field(alias="id", frozen=True)
    note: Optional[str] = Field(default=None, alias="note")
    r"""Free text"""
    old: Optional[int] = Field(default=None, alias="old", deprecated=True)
    created_at: Optional[datetime.datetime] = Field(default=None, alias="created-at")
`, entry)
}

func TestSubtypesAreNotImported(t *testing.T) {
	out, err := engine.Generate(fixture.Pets(), NewPythonGenerator(), engine.Options{})
	require.NoError(t, err)

	animal, _ := out.Get("animal.py")
	assert.NotContains(t, animal, "from .dog")
	dog, _ := out.Get("dog.py")
	assert.Contains(t, dog, "from .animal import Animal\n")
	assert.Contains(t, dog, "class Dog(Animal):\n    barks: Optional[bool] = Field(default=None, alias=\"barks\")\n")
}

func TestDescribedAliasAndReservedNames(t *testing.T) {
	defs := ir.NewDefinitions().
		MustAdd("Score", ir.NewNumber(ir.NumericSpec{Attributes: ir.Attributes{Description: "Points\nscored"}})).
		MustAdd("Route", ir.NewStructBuilder().
			Add("from", ir.String()).
			Add("score", ir.Ref("Score")).
			Build())

	out, err := engine.Generate(ir.NewSchema(ir.Ref("Route"), defs), NewPythonGenerator(), engine.Options{})
	require.NoError(t, err)

	score, _ := out.Get("score.py")
	assert.Equal(t, `from typing import Optional
from pydantic import BaseModel, Field, RootModel


# Points
# scored
Score = float
`, score)

	route, _ := out.Get("route.py")
	assert.Contains(t, route, `    from_: Optional[str] = Field(default=None, alias="from")`)
	assert.Contains(t, route, `    score: Optional[Score] = Field(default=None, alias="score")`)
}

func TestFormatDocstring(t *testing.T) {
	assert.Equal(t, "", formatDocstring(""))
	assert.Equal(t, "    first\n\n    second", formatDocstring("first\n\n  second\n"))
	assert.Equal(t, `r"""say \"\"\"hi\"\"\""""`, formatPythonComment(`say """hi"""`))
}
