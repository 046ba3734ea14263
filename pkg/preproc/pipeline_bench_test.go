package preproc

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

// smallProgram is a counter loop with a value macro and inline labels.
const smallProgram = `
#define COUNT 10
        lw 0 r1 n      // r1 = n
        lw 0 r2 neg1
loop:   beq r1 0 done
        add r1 r2 r1; beq 0 0 loop
done:   halt
n:      COUNT
neg1:   -1
`

// mediumProgram uses function macros, block comments and continuations.
const mediumProgram = `
/*
 * stack helpers
 * r5 = stack pointer, r6 = one
 */
#define PUSH(r) sw r5 r 0; add r5 r6 r5
#define POP(r)  add r5 r7 r5; lw r5 r 0
#define CALL(f) lw 0 r4 f; jalr r4 r3
#define RET     jalr r3 r4

        lw 0 r5 stack
        lw 0 r6 one
        lw 0 r7 neg1
        lw 0 r1 five
        CALL(dbl)
        CALL(tri)
        halt
dbl:    PUSH(r1); \
        add r1 r1 r1; \
        POP(r2)
        RET
tri:    PUSH(r3)
        add r1 r1 r2; add r2 r1 r1
        POP(r3)
        RET
one:    1
neg1:   -1
five:   5
stack:  stack
`

func largeProgram() string {
	var sb strings.Builder
	sb.WriteString("#define INC(r) add r one r\n")
	sb.WriteString("#define DEC(r) add r neg r\n")
	sb.WriteString("#define SWAP(a b t) add a 0 t; add b 0 a; add t 0 b\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "l%d: INC(r1); DEC(r2) /* step %d */\n", i, i)
		sb.WriteString("    SWAP(r1 r2 r3) // rotate\n")
		fmt.Fprintf(&sb, "    beq r1 r2 l%d\n", i)
	}
	sb.WriteString("    halt\none: 1\nneg: -1\n")
	return sb.String()
}

func benchmarkRun(b *testing.B, src string) {
	p, err := New(DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		if _, err := p.Run(strings.NewReader(src), io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_Small(b *testing.B) {
	benchmarkRun(b, smallProgram)
}

func BenchmarkRun_Medium(b *testing.B) {
	benchmarkRun(b, mediumProgram)
}

func BenchmarkRun_Large(b *testing.B) {
	benchmarkRun(b, largeProgram())
}

func TestBenchmarkProgramsPreprocess(t *testing.T) {
	p, err := New(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for name, src := range map[string]string{
		"small":  smallProgram,
		"medium": mediumProgram,
		"large":  largeProgram(),
	} {
		if _, err := p.ProcessString(src); err != nil {
			t.Errorf("%s program failed: %v", name, err)
		}
	}
}

func TestSmallProgramListing(t *testing.T) {
	p, err := New(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.ProcessString(smallProgram)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"       lw 0 1 n",
		"       lw 0 2 neg1",
		"loop   beq 1 0 done",
		"       add 1 2 1",
		"       beq 0 0 loop",
		"done   halt",
		"n      .fill 10",
		"neg1   .fill -1",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("listing =\n%s\nwant\n%s", got, want)
	}
}
