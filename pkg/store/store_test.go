package store_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/healthdeskco/healthdesk/pkg/llm"
	"github.com/healthdeskco/healthdesk/pkg/store"
)

// describeStore runs the Store contract against any implementation.
func describeStore(name string, newStore func() store.Store) bool {
	return Describe(name, func() {
		var (
			s   store.Store
			ctx context.Context
		)

		BeforeEach(func() {
			ctx = context.Background()
			s = newStore()
		})

		AfterEach(func() {
			if s != nil {
				s.Close()
			}
		})

		It("returns an empty history for an unknown thread", func() {
			msgs, err := s.Get(ctx, "missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(BeEmpty())
		})

		It("stores and retrieves a history in order", func() {
			history := []llm.Message{
				{Role: llm.RoleUser, Content: "What are the symptoms of flu?"},
				{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{
					{ID: "call_1", Name: "general_search", Arguments: `{"query":"flu symptoms"}`},
				}},
				{Role: llm.RoleTool, Content: "results", ToolCallID: "call_1"},
				{Role: llm.RoleAssistant, Content: "🟢 Green. Flu symptoms include..."},
			}

			Expect(s.Put(ctx, "t1", history)).To(Succeed())

			got, err := s.Get(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(4))
			Expect(got[0].Content).To(Equal("What are the symptoms of flu?"))
			Expect(got[1].ToolCalls).To(HaveLen(1))
			Expect(got[1].ToolCalls[0].ID).To(Equal("call_1"))
			Expect(got[2].ToolCallID).To(Equal("call_1"))
			Expect(got[3].Content).To(ContainSubstring("🟢"))
		})

		It("replaces a history on Put", func() {
			Expect(s.Put(ctx, "t1", []llm.Message{{Role: llm.RoleUser, Content: "one"}})).To(Succeed())
			Expect(s.Put(ctx, "t1", []llm.Message{
				{Role: llm.RoleUser, Content: "one"},
				{Role: llm.RoleAssistant, Content: "two"},
			})).To(Succeed())

			got, err := s.Get(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
		})

		It("isolates threads from each other", func() {
			Expect(s.Put(ctx, "a", []llm.Message{{Role: llm.RoleUser, Content: "thread a"}})).To(Succeed())
			Expect(s.Put(ctx, "b", []llm.Message{{Role: llm.RoleUser, Content: "thread b"}})).To(Succeed())

			gotA, err := s.Get(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			gotB, err := s.Get(ctx, "b")
			Expect(err).NotTo(HaveOccurred())

			Expect(gotA[0].Content).To(Equal("thread a"))
			Expect(gotB[0].Content).To(Equal("thread b"))
		})

		It("deletes a thread", func() {
			Expect(s.Put(ctx, "t1", []llm.Message{{Role: llm.RoleUser, Content: "x"}})).To(Succeed())
			Expect(s.Delete(ctx, "t1")).To(Succeed())

			got, err := s.Get(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})

		It("deleting an unknown thread is a no-op", func() {
			Expect(s.Delete(ctx, "never-existed")).To(Succeed())
		})

		It("lists thread identifiers", func() {
			Expect(s.Put(ctx, "a", []llm.Message{{Role: llm.RoleUser, Content: "1"}})).To(Succeed())
			Expect(s.Put(ctx, "b", []llm.Message{{Role: llm.RoleUser, Content: "2"}})).To(Succeed())

			ids, err := s.Threads(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf("a", "b"))
		})
	})
}

var _ = describeStore("MemoryStore", func() store.Store {
	return store.NewMemoryStore()
})

var _ = describeStore("SQLiteStore", func() store.Store {
	s, err := store.NewSQLiteStore(":memory:")
	Expect(err).NotTo(HaveOccurred())
	return s
})

var _ = Describe("SQLiteStore file backing", func() {
	It("creates the database file and survives reopening", func() {
		ctx := context.Background()
		tmpDir := GinkgoT().TempDir()
		dbPath := filepath.Join(tmpDir, "healthdesk.db")

		s, err := store.NewSQLiteStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Put(ctx, "t1", []llm.Message{{Role: llm.RoleUser, Content: "persist me"}})).To(Succeed())
		Expect(s.Close()).To(Succeed())

		_, err = os.Stat(dbPath)
		Expect(err).NotTo(HaveOccurred())

		reopened, err := store.NewSQLiteStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()

		got, err := reopened.Get(ctx, "t1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(1))
		Expect(got[0].Content).To(Equal("persist me"))
	})
})
