package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Policy", func() {
	var (
		policy    Policy
		admin     *Identity
		entidad   *Identity
		auditor   *Identity
		ciudadano *Identity
	)

	ginkgo.BeforeEach(func() {
		policy = NewPolicy(false)
		admin = &Identity{UserID: 1, Role: RoleAdmin}
		entidad = &Identity{UserID: 2, Role: RoleEntidad}
		auditor = &Identity{UserID: 3, Role: RoleAuditor}
		ciudadano = &Identity{UserID: 4, Role: RoleCiudadano}
	})

	ginkgo.Describe("plan reads", func() {
		ginkgo.It("should let admin and auditor read any plan", func() {
			other := Resource{OwnerID: 99}
			gomega.Expect(policy.Allow(admin, ActionReadPlan, other)).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(auditor, ActionReadPlan, other)).To(gomega.BeTrue())
		})

		ginkgo.It("should fence entidad to its own plans", func() {
			gomega.Expect(policy.Allow(entidad, ActionReadPlan, Resource{OwnerID: 2})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(entidad, ActionReadPlan, Resource{OwnerID: 99})).To(gomega.BeFalse())
		})

		ginkgo.It("should deny ciudadano even on matching ownership", func() {
			gomega.Expect(policy.Allow(ciudadano, ActionReadPlan, Resource{OwnerID: 4})).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("plan writes", func() {
		ginkgo.It("should let admin and entidad create plans", func() {
			gomega.Expect(policy.Allow(admin, ActionCreatePlan, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(entidad, ActionCreatePlan, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(auditor, ActionCreatePlan, Resource{})).To(gomega.BeFalse())
			gomega.Expect(policy.Allow(ciudadano, ActionCreatePlan, Resource{})).To(gomega.BeFalse())
		})

		ginkgo.It("should fence entidad edits, submits and deletes by ownership", func() {
			for _, action := range []Action{ActionEditPlan, ActionSubmitPlan, ActionDeletePlan} {
				gomega.Expect(policy.Allow(entidad, action, Resource{OwnerID: 2})).To(gomega.BeTrue())
				gomega.Expect(policy.Allow(entidad, action, Resource{OwnerID: 1})).To(gomega.BeFalse())
				gomega.Expect(policy.Allow(admin, action, Resource{OwnerID: 2})).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should reserve observations and estado changes for admin and auditor", func() {
			for _, action := range []Action{ActionObservePlan, ActionSetEstado} {
				gomega.Expect(policy.Allow(admin, action, Resource{})).To(gomega.BeTrue())
				gomega.Expect(policy.Allow(auditor, action, Resource{})).To(gomega.BeTrue())
				gomega.Expect(policy.Allow(entidad, action, Resource{OwnerID: 2})).To(gomega.BeFalse())
				gomega.Expect(policy.Allow(ciudadano, action, Resource{})).To(gomega.BeFalse())
			}
		})
	})

	ginkgo.Describe("seguimiento writes", func() {
		ginkgo.It("should allow admin, entidad and auditor", func() {
			gomega.Expect(policy.Allow(admin, ActionWriteSeguimiento, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(entidad, ActionWriteSeguimiento, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(auditor, ActionWriteSeguimiento, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(ciudadano, ActionWriteSeguimiento, Resource{})).To(gomega.BeFalse())
		})

		ginkgo.It("should keep the quality note out of entidad hands", func() {
			gomega.Expect(policy.Allow(admin, ActionWriteQualityNote, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(auditor, ActionWriteQualityNote, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(entidad, ActionWriteQualityNote, Resource{})).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("user administration", func() {
		ginkgo.It("should be admin only", func() {
			gomega.Expect(policy.Allow(admin, ActionManageUsers, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(entidad, ActionManageUsers, Resource{})).To(gomega.BeFalse())
			gomega.Expect(policy.Allow(auditor, ActionManageUsers, Resource{})).To(gomega.BeFalse())
			gomega.Expect(policy.Allow(ciudadano, ActionManageUsers, Resource{})).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("reportes", func() {
		ginkgo.It("should let every authenticated role read", func() {
			for _, id := range []*Identity{admin, entidad, auditor, ciudadano} {
				gomega.Expect(policy.Allow(id, ActionReadReporte, Resource{})).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should restrict publishing to admin and auditor", func() {
			gomega.Expect(policy.Allow(admin, ActionCreateReporte, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(auditor, ActionCreateReporte, Resource{})).To(gomega.BeTrue())
			gomega.Expect(policy.Allow(entidad, ActionCreateReporte, Resource{})).To(gomega.BeFalse())
			gomega.Expect(policy.Allow(ciudadano, ActionCreateReporte, Resource{})).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("edge cases", func() {
		ginkgo.It("should deny a nil identity", func() {
			gomega.Expect(policy.Allow(nil, ActionReadPlan, Resource{})).To(gomega.BeFalse())
		})

		ginkgo.It("should deny unknown actions", func() {
			gomega.Expect(policy.Allow(admin, Action("plan:nope"), Resource{})).To(gomega.BeFalse())
		})

		ginkgo.It("should allow everything under bypass", func() {
			bypass := NewPolicy(true)
			gomega.Expect(bypass.Allow(nil, ActionManageUsers, Resource{})).To(gomega.BeTrue())
			gomega.Expect(bypass.Allow(ciudadano, ActionDeletePlan, Resource{OwnerID: 1})).To(gomega.BeTrue())
		})
	})
})
