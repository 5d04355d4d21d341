package detectors

import (
	"testing"

	"github.com/varalys/pyreview/internal/types"
)

func TestHardcodedCredential(t *testing.T) {
	src := "import os\npassword = \"secret123\"\nAPI_KEY='abc'\nuser = os.environ['USER']\n"
	fs := HardcodedCredential().Check("app.py", src, nil)
	if len(fs) != 2 {
		t.Fatalf("want 2 findings, got %d: %+v", len(fs), fs)
	}
	if fs[0].Line != 2 || fs[1].Line != 3 {
		t.Fatalf("unexpected lines %d, %d", fs[0].Line, fs[1].Line)
	}
	if fs[0].Category != types.CatSecurity || fs[0].Severity != types.SevHigh || fs[0].Rule != "hardcoded-credential" {
		t.Fatalf("unexpected finding %+v", fs[0])
	}
	if fs[0].Path != "app.py" {
		t.Fatalf("path not carried: %q", fs[0].Path)
	}
}

func TestHardcodedCredential_EmptyLiteralIgnored(t *testing.T) {
	if fs := HardcodedCredential().Check("a.py", "token = ''\n", nil); len(fs) != 0 {
		t.Fatalf("empty literal should not match, got %d", len(fs))
	}
}

func TestSQLInjection(t *testing.T) {
	src := "q = \"select * from users where id = \" + str(uid)\nq2 = \"SELECT 1\"\n"
	fs := SQLInjection().Check("db.py", src, nil)
	if len(fs) != 1 || fs[0].Line != 1 {
		t.Fatalf("want one finding on line 1, got %+v", fs)
	}
	if fs[0].Message != "Potential SQL injection vulnerability. Use parameterized queries." {
		t.Fatalf("unexpected message %q", fs[0].Message)
	}
}

func TestBareExcept(t *testing.T) {
	src := "try:\n    run()\nexcept:\n    pass\ntry:\n    run()\nexcept ValueError:\n    pass\nexcept :\n    pass\n"
	fs := BareExcept().Check("x.py", src, nil)
	if len(fs) != 2 || fs[0].Line != 3 || fs[1].Line != 9 {
		t.Fatalf("unexpected findings %+v", fs)
	}
	if fs[0].Severity != types.SevMed {
		t.Fatalf("bare except should be medium, got %s", fs[0].Severity)
	}
}
