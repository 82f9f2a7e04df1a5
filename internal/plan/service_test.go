package plan

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
)

func TestPlan(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Plan Module Suite")
}

// Mock Repository for testing
type mockPlanRepository struct {
	plans          map[int64]*Plan
	nextID         int64
	lastListFilter ListFilter
	cascadeDeleted []int64
	returnError    bool
	errorToReturn  error
}

func newMockPlanRepository() *mockPlanRepository {
	return &mockPlanRepository{plans: map[int64]*Plan{}, nextID: 1}
}

func (m *mockPlanRepository) Create(p *Plan) error {
	if m.returnError {
		return m.errorToReturn
	}
	p.ID = m.nextID
	m.nextID++
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanRepository) GetByID(id int64) (*Plan, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func (m *mockPlanRepository) List(filter ListFilter) ([]*Plan, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.lastListFilter = filter
	var out []*Plan
	for _, p := range m.plans {
		if filter.OwnerID != nil && p.CreatedBy != *filter.OwnerID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPlanRepository) Update(p *Plan) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanRepository) DeleteCascade(id int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	delete(m.plans, id)
	m.cascadeDeleted = append(m.cascadeDeleted, id)
	return nil
}

var _ = ginkgo.Describe("PlanService", func() {
	var (
		service  *Service
		mockRepo *mockPlanRepository
		admin    *auth.Identity
		entidad  *auth.Identity
		auditor  *auth.Identity
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockPlanRepository()
		service = NewService(mockRepo, auth.NewPolicy(false), slog.Default())
		admin = &auth.Identity{UserID: 1, Role: auth.RoleAdmin}
		entidad = &auth.Identity{UserID: 2, Role: auth.RoleEntidad}
		auditor = &auth.Identity{UserID: 3, Role: auth.RoleAuditor}
	})

	createOwnedPlan := func(owner *auth.Identity) *Plan {
		p, err := service.Create(owner, CreatePlanDTO{NombreEntidad: "Secretaría de Salud"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return p
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("should start every plan in Pendiente owned by the caller", func() {
			p := createOwnedPlan(entidad)

			gomega.Expect(p.Estado).To(gomega.Equal(EstadoPendiente))
			gomega.Expect(p.CreatedBy).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("should reject a missing nombre_entidad", func() {
			_, err := service.Create(entidad, CreatePlanDTO{})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should deny auditor", func() {
			_, err := service.Create(auditor, CreatePlanDTO{NombreEntidad: "X"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("lifecycle", func() {
		ginkgo.It("should walk Pendiente, En revisión, Observado, back and Aprobado", func() {
			p := createOwnedPlan(entidad)

			// entidad submits for review
			p, err := service.EnviarRevision(entidad, p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Estado).To(gomega.Equal(EstadoEnRevision))

			// auditor raises a finding
			p, err = service.AgregarObservacion(auditor, p.ID, ObservacionDTO{Observacion: "faltan evidencias"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Estado).To(gomega.Equal(EstadoObservado))
			gomega.Expect(*p.ObservacionCalidad).To(gomega.Equal("faltan evidencias"))

			// entidad reworks and resubmits
			p, err = service.EnviarRevision(entidad, p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Estado).To(gomega.Equal(EstadoEnRevision))

			// auditor approves
			p, err = service.CambiarEstado(auditor, p.ID, CambiarEstadoDTO{Estado: EstadoAprobado})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Estado).To(gomega.Equal(EstadoAprobado))
		})

		ginkgo.It("should refuse a second submit while already under review", func() {
			p := createOwnedPlan(entidad)

			_, err := service.EnviarRevision(entidad, p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.EnviarRevision(entidad, p.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidEstado))
		})

		ginkgo.It("should accept an operator-supplied estado outside the canonical set", func() {
			p := createOwnedPlan(entidad)

			p, err := service.CambiarEstado(admin, p.ID, CambiarEstadoDTO{Estado: "Archivado"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Estado).To(gomega.Equal("Archivado"))
		})

		ginkgo.It("should deny entidad an estado change even on its own plan", func() {
			p := createOwnedPlan(entidad)

			_, err := service.CambiarEstado(entidad, p.ID, CambiarEstadoDTO{Estado: EstadoAprobado})
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should deny entidad an observation even on its own plan", func() {
			p := createOwnedPlan(entidad)

			_, err := service.AgregarObservacion(entidad, p.ID, ObservacionDTO{Observacion: "x"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("ownership fencing", func() {
		ginkgo.It("should hide foreign plans from entidad", func() {
			p := createOwnedPlan(admin)

			_, err := service.Get(entidad, p.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should filter the entidad listing to own plans", func() {
			createOwnedPlan(admin)
			own := createOwnedPlan(entidad)

			plans, err := service.List(entidad, "", 0, 50)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(plans).To(gomega.HaveLen(1))
			gomega.Expect(plans[0].ID).To(gomega.Equal(own.ID))
			gomega.Expect(mockRepo.lastListFilter.OwnerID).ToNot(gomega.BeNil())
		})

		ginkgo.It("should list everything for auditor without a filter", func() {
			createOwnedPlan(admin)
			createOwnedPlan(entidad)

			plans, err := service.List(auditor, "", 0, 50)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(plans).To(gomega.HaveLen(2))
			gomega.Expect(mockRepo.lastListFilter.OwnerID).To(gomega.BeNil())
		})

		ginkgo.It("should clamp out-of-range paging values", func() {
			_, err := service.List(admin, "", -5, 1000)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.lastListFilter.Skip).To(gomega.Equal(0))
			gomega.Expect(mockRepo.lastListFilter.Limit).To(gomega.Equal(50))
		})

		ginkgo.It("should block entidad updates on foreign plans", func() {
			p := createOwnedPlan(admin)

			nombre := "otro"
			_, err := service.Update(entidad, p.ID, UpdatePlanDTO{NombreEntidad: &nombre})
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("quality note on update", func() {
		ginkgo.It("should silently drop the note from an entidad payload", func() {
			p := createOwnedPlan(entidad)

			nota := "autoelogio"
			nombre := "Secretaría de Salud"
			updated, err := service.Update(entidad, p.ID, UpdatePlanDTO{
				NombreEntidad:      &nombre,
				ObservacionCalidad: &nota,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.ObservacionCalidad).To(gomega.BeNil())
			gomega.Expect(updated.NombreEntidad).To(gomega.Equal(nombre))
		})

		ginkgo.It("should apply the note for admin", func() {
			p := createOwnedPlan(entidad)

			nota := "revisar soportes"
			updated, err := service.Update(admin, p.ID, UpdatePlanDTO{ObservacionCalidad: &nota})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*updated.ObservacionCalidad).To(gomega.Equal(nota))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should cascade through the repository", func() {
			p := createOwnedPlan(entidad)

			err := service.Delete(entidad, p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.cascadeDeleted).To(gomega.ContainElement(p.ID))
		})

		ginkgo.It("should deny auditor", func() {
			p := createOwnedPlan(entidad)

			err := service.Delete(auditor, p.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should report a missing plan", func() {
			err := service.Delete(admin, 404)
			gomega.Expect(err).To(gomega.Equal(internal.ErrPlanNotFound))
		})
	})
})
