package ratings

// Operation names, as declared in the documents below.
const (
	OpAutocompleteSchool  = "AutocompleteSearchQuery"
	OpSearchTeacher       = "NewSearchTeachersQuery"
	OpTeacherRatingsPage  = "TeacherRatingsPageQuery"
	OpDepartmentFirstPage = "TeacherSearchResultsPageQuery"
	OpDepartmentPage      = "TeacherSearchPaginationQuery"
)

const autocompleteSchoolQuery = `query AutocompleteSearchQuery($query: String!) {
  autocomplete(query: $query) {
    schools {
      edges {
        node {
          id
          name
          city
          state
        }
      }
    }
  }
}`

const searchTeacherQuery = `query NewSearchTeachersQuery($text: String!, $schoolID: ID!) {
  newSearch {
    teachers(query: {text: $text, schoolID: $schoolID}) {
      edges {
        cursor
        node {
          id
          firstName
          lastName
          school {
            name
            id
          }
        }
      }
    }
  }
}`

const teacherRatingsPageQuery = `query TeacherRatingsPageQuery($id: ID!) {
  node(id: $id) {
    __typename
    ... on Teacher {
      id
      legacyId
      firstName
      lastName
      department
      school {
        id
        name
        city
        state
      }
      avgRating
      avgDifficulty
      numRatings
      wouldTakeAgainPercent
      isSaved
    }
    id
  }
}`

const teacherCardFields = `
        cursor
        node {
          id
          legacyId
          firstName
          lastName
          avgRating
          avgDifficulty
          numRatings
          wouldTakeAgainPercent
          department
          isSaved
          school {
            id
            name
            city
            state
          }
        }`

const departmentFirstPageQuery = `query TeacherSearchResultsPageQuery($query: TeacherSearchQuery!, $schoolID: ID) {
  search: newSearch {
    teachers(query: $query, first: 8, after: "") {
      didFallback
      edges {` + teacherCardFields + `
      }
      pageInfo {
        hasNextPage
        endCursor
      }
      resultCount
    }
  }
  school: node(id: $schoolID) {
    __typename
    ... on School {
      name
    }
    id
  }
}`

const departmentPaginationQuery = `query TeacherSearchPaginationQuery($count: Int!, $cursor: String, $query: TeacherSearchQuery!) {
  search: newSearch {
    teachers(query: $query, first: $count, after: $cursor) {
      didFallback
      edges {` + teacherCardFields + `
      }
      pageInfo {
        hasNextPage
        endCursor
      }
      resultCount
    }
  }
}`
