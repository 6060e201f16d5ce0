package adapter_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/blues/notehub-mcp-server/mocks"
	"github.com/blues/notehub-mcp-server/pkg/adapter"
	"github.com/blues/notehub-mcp-server/pkg/notehub"
)

func authError(message string) error {
	return &notehub.AuthenticationError{Err: errors.New(message)}
}

var _ = Describe("Adapter", func() {
	var (
		ctrl    *gomock.Controller
		gateway *mocks.MockGateway
		a       *adapter.Adapter
		creds   adapter.Credentials
		ctx     context.Context
	)

	projects := json.RawMessage(`{"projects": [{"uid": "app:123"}]}`)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		gateway = mocks.NewMockGateway(ctrl)
		a = adapter.New(gateway)
		creds = adapter.Credentials{Username: "alice@example.com", Password: "hunter2"}
		ctx = context.Background()
		DeferCleanup(func() {
			ctrl.Finish()
		})
	})

	Context("token resolution", func() {
		It("logs in once and reuses the session across invocations", func() {
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil)
			gateway.EXPECT().GetProjects(gomock.Any(), "tok1").Return(projects, nil).Times(2)

			for i := 0; i < 2; i++ {
				rsp, err := a.Projects(ctx, creds)
				Expect(err).NotTo(HaveOccurred())
				Expect(rsp).To(MatchJSON(projects))
			}
		})

		It("propagates login failures without caching anything", func() {
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("", authError("invalid credentials")).Times(2)

			for i := 0; i < 2; i++ {
				_, err := a.Projects(ctx, creds)
				Expect(notehub.IsAuthenticationError(err)).To(BeTrue())
			}
		})

		It("rejects empty credentials before reaching the gateway", func() {
			_, err := a.Projects(ctx, adapter.Credentials{Username: "", Password: "hunter2"})
			Expect(notehub.IsValidationError(err)).To(BeTrue())

			_, err = a.Projects(ctx, adapter.Credentials{Username: "alice@example.com", Password: ""})
			Expect(notehub.IsValidationError(err)).To(BeTrue())
		})
	})

	Context("token rejected by the service mid-TTL", func() {
		It("forces one re-login and retries the call", func() {
			gomock.InOrder(
				gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil),
				gateway.EXPECT().GetProjects(gomock.Any(), "tok1").Return(nil, authError("session revoked")),
				gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok2", nil),
				gateway.EXPECT().GetProjects(gomock.Any(), "tok2").Return(projects, nil),
			)

			rsp, err := a.Projects(ctx, creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp).To(MatchJSON(projects))
		})

		It("gives up after a single retry", func() {
			gomock.InOrder(
				gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil),
				gateway.EXPECT().GetProjects(gomock.Any(), "tok1").Return(nil, authError("session revoked")),
				gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok2", nil),
				gateway.EXPECT().GetProjects(gomock.Any(), "tok2").Return(nil, authError("session revoked")),
			)

			_, err := a.Projects(ctx, creds)
			Expect(notehub.IsAuthenticationError(err)).To(BeTrue())
		})

		It("does not retry when the re-login mints the same token", func() {
			gomock.InOrder(
				gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil),
				gateway.EXPECT().GetProjects(gomock.Any(), "tok1").Return(nil, authError("session revoked")),
				gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil),
			)

			_, err := a.Projects(ctx, creds)
			Expect(notehub.IsAuthenticationError(err)).To(BeTrue())
		})

		It("does not retry non-authentication failures", func() {
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil)
			gateway.EXPECT().GetProjects(gomock.Any(), "tok1").Return(nil, &notehub.HttpError{Code: 503, Message: "service restarting"})

			_, err := a.Projects(ctx, creds)
			Expect(notehub.Temporary(err)).To(BeTrue())
		})
	})

	Context("parameter plumbing", func() {
		It("passes device filters through unchanged", func() {
			filter := notehub.DeviceFilter{FleetUID: "fleet:9", Tags: []string{"outdoor"}}
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil)
			gateway.EXPECT().GetProjectDevices(gomock.Any(), "tok1", "app:123", filter).Return(json.RawMessage(`{"devices": []}`), nil)

			rsp, err := a.Devices(ctx, creds, "app:123", filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp).To(MatchJSON(`{"devices": []}`))
		})

		It("passes event filters through unchanged", func() {
			filter := notehub.EventFilter{PageSize: 50, PageNum: 1, Files: "_health.qo"}
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil)
			gateway.EXPECT().GetProjectEvents(gomock.Any(), "tok1", "app:123", filter).Return(json.RawMessage(`{"events": []}`), nil)

			rsp, err := a.Events(ctx, creds, "app:123", filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp).To(MatchJSON(`{"events": []}`))
		})

		It("delivers notes with body and payload intact", func() {
			note := notehub.Note{Body: map[string]interface{}{"cmd": "restart"}, Payload: "aGVsbG8="}
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tok1", nil)
			gateway.EXPECT().SendNote(gomock.Any(), "tok1", "app:123", "dev:5", "commands.qi", note).Return(json.RawMessage(`{}`), nil)

			rsp, err := a.SendNote(ctx, creds, "app:123", "dev:5", "commands.qi", note)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp).To(MatchJSON(`{}`))
		})
	})

	Context("credential isolation", func() {
		It("never shares a token between credentials with different passwords", func() {
			other := adapter.Credentials{Username: creds.Username, Password: "different"}
			gateway.EXPECT().Login(gomock.Any(), creds.Username, creds.Password).Return("tokA", nil)
			gateway.EXPECT().Login(gomock.Any(), other.Username, other.Password).Return("tokB", nil)
			gateway.EXPECT().GetProjects(gomock.Any(), "tokA").Return(projects, nil)
			gateway.EXPECT().GetProjects(gomock.Any(), "tokB").Return(projects, nil)

			_, err := a.Projects(ctx, creds)
			Expect(err).NotTo(HaveOccurred())
			_, err = a.Projects(ctx, other)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
